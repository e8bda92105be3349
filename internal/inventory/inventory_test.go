package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pillguard/pillguard/internal/medication"
)

func TestDailyUsage(t *testing.T) {
	assert.Equal(t, 1.0, DailyUsage(medication.Daily))
	assert.Equal(t, 2.0, DailyUsage(medication.TwiceDaily))
	assert.InDelta(t, 1.0/7.0, DailyUsage(medication.Weekly), 1e-9)
	assert.Equal(t, 0.5, DailyUsage(medication.AsNeeded))
	assert.Equal(t, 1.0, DailyUsage(medication.EveryXHours))
}

func TestDaysLeft(t *testing.T) {
	assert.Equal(t, 30, DaysLeft(30, medication.Daily))
	assert.Equal(t, 15, DaysLeft(30, medication.TwiceDaily))
	assert.Equal(t, 210, DaysLeft(30, medication.Weekly))
	assert.Equal(t, 60, DaysLeft(30, medication.AsNeeded))
	assert.Equal(t, 0, DaysLeft(0, medication.Daily))
}

func TestPredictedRefillDate(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	date := PredictedRefillDate(now, 30, medication.Daily)
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC), *date)

	// A weekly medication with a big bottle is more than a year out.
	assert.Nil(t, PredictedRefillDate(now, 60, medication.Weekly))
}

func TestDecrementStock(t *testing.T) {
	tests := []struct {
		name   string
		dosage string
		form   medication.DrugForm
		stock  float64
		want   float64
	}{
		{"liquid deducts parsed amount", "5ml", medication.FormLiquid, 10, 5},
		{"injection deducts parsed amount", "0.5ml", medication.FormInjection, 3, 2.5},
		{"tablet strength is not a quantity", "500mg", medication.FormTablet, 10, 9},
		{"tablet with unit word deducts count", "2 tablets", medication.FormTablet, 10, 8},
		{"capsule with unit word", "3 capsules", medication.FormCapsule, 10, 7},
		{"pill counts as a unit word", "2 pills daily", medication.FormTablet, 10, 8},
		{"range takes the first token", "1-2 tablets", medication.FormTablet, 10, 9},
		{"unparseable falls back to one", "one spoonful", medication.FormLiquid, 10, 9},
		{"empty dosage falls back to one", "", medication.FormTablet, 10, 9},
		{"clamped at zero", "5ml", medication.FormLiquid, 3, 0},
		{"zero stock stays zero", "500mg", medication.FormTablet, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			med := &medication.Medication{
				DosageText: tt.dosage,
				Form:       tt.form,
				Stock:      tt.stock,
			}
			assert.Equal(t, tt.want, DecrementStock(med))
		})
	}
}
