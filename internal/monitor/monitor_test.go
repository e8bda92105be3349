package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/medication"
	"github.com/pillguard/pillguard/internal/schedule"
)

type fakeMedStore struct {
	mu   sync.Mutex
	meds []medication.Medication
}

func (f *fakeMedStore) List() ([]medication.Medication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]medication.Medication, len(f.meds))
	copy(out, f.meds)
	return out, nil
}

func (f *fakeMedStore) Update(med *medication.Medication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.meds {
		if f.meds[i].ID == med.ID {
			f.meds[i] = *med
		}
	}
	return nil
}

type fakeDoseLog struct {
	counts map[string]int
}

func (f *fakeDoseLog) TakenToday(_ context.Context, id string, _ time.Time) (int, error) {
	return f.counts[id], nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) Send(_ context.Context, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, title+": "+body)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func testEnv(now time.Time) schedule.Env {
	return schedule.Env{Now: now, Zone: time.UTC}
}

func TestCheckDue_NotifiesJustDueDose(t *testing.T) {
	now := time.Date(2026, 1, 15, 8, 0, 10, 0, time.UTC)
	meds := &fakeMedStore{meds: []medication.Medication{{
		ID:             "med_1",
		Name:           "Lisinopril",
		DosageText:     "10mg",
		Frequency:      medication.Daily,
		ScheduledTimes: []string{"08:00"},
	}}}
	notifier := &fakeNotifier{}

	m := New(Config{Interval: 30 * time.Second, Window: 45 * time.Second},
		meds, &fakeDoseLog{counts: map[string]int{}}, notifier, zap.NewNop())

	m.CheckDue(context.Background(), testEnv(now))
	assert.Equal(t, 1, notifier.count())

	// A second poll in the same window must not announce the dose again.
	m.CheckDue(context.Background(), testEnv(now.Add(30*time.Second)))
	assert.Equal(t, 1, notifier.count())
}

func TestCheckDue_IgnoresFutureAndStaleDoses(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	meds := &fakeMedStore{meds: []medication.Medication{
		{
			ID:             "med_future",
			Name:           "Evening med",
			Frequency:      medication.Daily,
			ScheduledTimes: []string{"20:00"},
		},
		{
			ID:             "med_stale",
			Name:           "Morning med",
			Frequency:      medication.Daily,
			ScheduledTimes: []string{"06:00"}, // four hours overdue, outside the window
		},
	}}
	notifier := &fakeNotifier{}

	m := New(Config{Interval: 30 * time.Second, Window: 45 * time.Second},
		meds, &fakeDoseLog{counts: map[string]int{}}, notifier, zap.NewNop())

	m.CheckDue(context.Background(), testEnv(now))
	assert.Equal(t, 0, notifier.count())
}

func TestCheckDue_TakenDoseAdvancesSlot(t *testing.T) {
	now := time.Date(2026, 1, 15, 8, 0, 10, 0, time.UTC)
	meds := &fakeMedStore{meds: []medication.Medication{{
		ID:             "med_1",
		Name:           "Metformin",
		Frequency:      medication.TwiceDaily,
		ScheduledTimes: []string{"08:00", "20:00"},
	}}}
	notifier := &fakeNotifier{}

	// The 08:00 dose was already taken, so the next slot is 20:00 and
	// nothing is due right now.
	m := New(Config{Interval: 30 * time.Second, Window: 45 * time.Second},
		meds, &fakeDoseLog{counts: map[string]int{"med_1": 1}}, notifier, zap.NewNop())

	m.CheckDue(context.Background(), testEnv(now))
	assert.Equal(t, 0, notifier.count())
}

func TestCheckRefills(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	meds := &fakeMedStore{meds: []medication.Medication{
		{ID: "med_low", Name: "Lisinopril", Frequency: medication.Daily, Stock: 5, RefillThreshold: 7},
		{ID: "med_ok", Name: "Metformin", Frequency: medication.TwiceDaily, Stock: 56, RefillThreshold: 10},
	}}
	notifier := &fakeNotifier{}

	m := New(Config{}, meds, &fakeDoseLog{}, notifier, zap.NewNop())

	m.CheckRefills(context.Background(), testEnv(now))
	assert.Equal(t, 1, notifier.count())
	assert.Contains(t, notifier.sent[0], "Lisinopril")
	assert.Contains(t, notifier.sent[0], "running low")
}

func TestStartStop(t *testing.T) {
	meds := &fakeMedStore{}
	notifier := &fakeNotifier{}

	m := New(Config{Interval: time.Hour}, meds, &fakeDoseLog{}, notifier, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, m.Start(ctx))
	assert.True(t, m.IsRunning())
	assert.Error(t, m.Start(ctx), "double start must fail")

	m.Stop()
	assert.False(t, m.IsRunning())
}
