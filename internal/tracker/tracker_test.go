package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/config"
	"github.com/pillguard/pillguard/internal/medication"
	"github.com/pillguard/pillguard/internal/schedule"
	"github.com/pillguard/pillguard/internal/store"
)

func setupTracker(t *testing.T) (*Tracker, *medication.Store) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.DataDir = dir
	cfg.Storage.SQLitePath = filepath.Join(dir, "test.db")
	cfg.Storage.BadgerPath = filepath.Join(dir, "badger")

	st, err := store.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	meds, err := medication.NewStore(st.DB())
	require.NoError(t, err)

	return New(meds, st, zap.NewNop()), meds
}

func testEnv(now time.Time) schedule.Env {
	return schedule.Env{Now: now, Zone: time.UTC}
}

func TestTakeDose(t *testing.T) {
	tracker, meds := setupTracker(t)
	now := time.Date(2026, 1, 15, 8, 5, 0, 0, time.UTC)

	med := &medication.Medication{
		Name:           "Metformin",
		DosageText:     "1 tablet",
		Form:           medication.FormTablet,
		Frequency:      medication.TwiceDaily,
		ScheduledTimes: []string{"08:00", "20:00"},
		Stock:          60,
	}
	require.NoError(t, meds.Create(med))

	row, err := tracker.TakeDose(context.Background(), med.ID, testEnv(now))
	require.NoError(t, err)

	assert.Equal(t, 1, row.TakenToday)
	assert.Equal(t, float64(59), row.Medication.Stock)
	assert.Equal(t, now.UnixMilli(), row.Medication.LastTakenAt)

	// The morning slot is consumed, so the resolved next dose is 20:00.
	require.NotNil(t, row.NextDue)
	assert.Equal(t, 20, row.NextDue.Hour())
	assert.Equal(t, "20:00", row.DisplayLabel)
}

func TestTakeDose_UnknownMedication(t *testing.T) {
	tracker, _ := setupTracker(t)

	_, err := tracker.TakeDose(context.Background(), "med_missing", testEnv(time.Now()))
	assert.Error(t, err)
}

func TestOverview(t *testing.T) {
	tracker, meds := setupTracker(t)
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	require.NoError(t, meds.Create(&medication.Medication{
		Name:            "Lisinopril",
		DosageText:      "10mg",
		Form:            medication.FormTablet,
		Frequency:       medication.Daily,
		ScheduledTimes:  []string{"08:00"},
		Stock:           5,
		RefillThreshold: 7,
	}))
	require.NoError(t, meds.Create(&medication.Medication{
		Name:       "Ibuprofen",
		DosageText: "200mg",
		Form:       medication.FormTablet,
		Frequency:  medication.AsNeeded,
		Stock:      30,
	}))

	rows, err := tracker.Overview(context.Background(), testEnv(now))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Lisinopril", rows[0].Medication.Name)
	assert.True(t, rows[0].NeedsRefill)
	assert.Equal(t, 5, rows[0].DaysLeft)

	assert.Equal(t, "Ibuprofen", rows[1].Medication.Name)
	assert.False(t, rows[1].NeedsRefill)
}

func TestOverviewByID_TakenCountSurvivesRestartOfDay(t *testing.T) {
	tracker, meds := setupTracker(t)
	now := time.Date(2026, 1, 15, 8, 5, 0, 0, time.UTC)

	med := &medication.Medication{
		Name:           "Metformin",
		DosageText:     "500mg",
		Form:           medication.FormTablet,
		Frequency:      medication.TwiceDaily,
		ScheduledTimes: []string{"08:00", "20:00"},
		Stock:          60,
	}
	require.NoError(t, meds.Create(med))

	_, err := tracker.TakeDose(context.Background(), med.ID, testEnv(now))
	require.NoError(t, err)

	row, err := tracker.OverviewByID(context.Background(), med.ID, testEnv(now.Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, 1, row.TakenToday)

	// Next calendar day the count resets and the 08:00 slot comes back.
	tomorrow := now.AddDate(0, 0, 1)
	row, err = tracker.OverviewByID(context.Background(), med.ID, testEnv(tomorrow))
	require.NoError(t, err)
	assert.Equal(t, 0, row.TakenToday)
}
