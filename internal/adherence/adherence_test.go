package adherence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/medication"
)

// fakeLogs serves canned daily logs keyed by date string.
type fakeLogs struct {
	mu   sync.Mutex
	logs map[string]map[string]int
	hits int
}

func (f *fakeLogs) DailyLog(ctx context.Context, dateKey string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits++
	if log, ok := f.logs[dateKey]; ok {
		return log, nil
	}
	return map[string]int{}, nil
}

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func TestStats_ZeroSchedule(t *testing.T) {
	agg := New(&fakeLogs{}, zap.NewNop())

	stats, err := agg.Stats(context.Background(), nil, 30, testNow)
	require.NoError(t, err)
	assert.Equal(t, Stats{Rate: 100, TotalTaken: 0, TotalScheduled: 0}, stats)
}

func TestStats_PerfectDaily(t *testing.T) {
	meds := []medication.Medication{
		{ID: "med_a", Frequency: medication.Daily},
	}
	logs := &fakeLogs{logs: map[string]map[string]int{}}
	for i := 0; i < 7; i++ {
		logs.logs[testNow.AddDate(0, 0, -i).Format("2006-01-02")] = map[string]int{"med_a": 1}
	}

	stats, err := New(logs, zap.NewNop()).Stats(context.Background(), meds, 7, testNow)
	require.NoError(t, err)
	assert.Equal(t, Stats{Rate: 100, TotalTaken: 7, TotalScheduled: 7}, stats)
	assert.Equal(t, 7, logs.hits)
}

func TestStats_ExcessDosesAreCapped(t *testing.T) {
	meds := []medication.Medication{
		{ID: "med_a", Frequency: medication.Daily},
	}
	logs := &fakeLogs{logs: map[string]map[string]int{
		testNow.Format("2006-01-02"): {"med_a": 5},
	}}

	stats, err := New(logs, zap.NewNop()).Stats(context.Background(), meds, 1, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTaken, "five logged doses still credit at most the expected one")
	assert.Equal(t, 1, stats.TotalScheduled)
	assert.Equal(t, 100, stats.Rate)
}

func TestStats_TwiceDailyExpectation(t *testing.T) {
	meds := []medication.Medication{
		{ID: "med_a", Frequency: medication.TwiceDaily},
	}
	logs := &fakeLogs{logs: map[string]map[string]int{
		testNow.Format("2006-01-02"):                   {"med_a": 2},
		testNow.AddDate(0, 0, -1).Format("2006-01-02"): {"med_a": 1},
	}}

	stats, err := New(logs, zap.NewNop()).Stats(context.Background(), meds, 2, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTaken)
	assert.Equal(t, 4, stats.TotalScheduled)
	assert.Equal(t, 75, stats.Rate)
}

func TestStats_SkipsAsNeededAndWeekly(t *testing.T) {
	meds := []medication.Medication{
		{ID: "med_prn", Frequency: medication.AsNeeded},
		{ID: "med_wk", Frequency: medication.Weekly},
		{ID: "med_daily", Frequency: medication.Daily},
	}
	logs := &fakeLogs{logs: map[string]map[string]int{
		testNow.Format("2006-01-02"): {"med_prn": 3, "med_wk": 1, "med_daily": 1},
	}}

	stats, err := New(logs, zap.NewNop()).Stats(context.Background(), meds, 1, testNow)
	require.NoError(t, err)
	assert.Equal(t, Stats{Rate: 100, TotalTaken: 1, TotalScheduled: 1}, stats)
}

func TestStats_MissingDaysCountAsMissed(t *testing.T) {
	meds := []medication.Medication{
		{ID: "med_a", Frequency: medication.Daily},
	}
	logs := &fakeLogs{logs: map[string]map[string]int{
		testNow.Format("2006-01-02"): {"med_a": 1},
	}}

	stats, err := New(logs, zap.NewNop()).Stats(context.Background(), meds, 4, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTaken)
	assert.Equal(t, 4, stats.TotalScheduled)
	assert.Equal(t, 25, stats.Rate)
}
