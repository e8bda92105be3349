// Package tracker owns the read-modify-write cycle around a dose: record it
// in the daily log, advance the medication's last-taken anchor, and drain
// stock. It also assembles the overview rows the CLI and API both render.
package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/inventory"
	"github.com/pillguard/pillguard/internal/medication"
	"github.com/pillguard/pillguard/internal/metrics"
	"github.com/pillguard/pillguard/internal/schedule"
	"github.com/pillguard/pillguard/internal/store"
)

// Tracker coordinates the medication store and the daily log.
type Tracker struct {
	meds   *medication.Store
	logs   *store.Store
	logger *zap.Logger
}

// New creates a tracker.
func New(meds *medication.Store, logs *store.Store, logger *zap.Logger) *Tracker {
	return &Tracker{meds: meds, logs: logs, logger: logger}
}

// Overview is one medication with its schedule state resolved for display.
type Overview struct {
	Medication    medication.Medication `json:"medication"`
	TakenToday    int                   `json:"taken_today"`
	NextDue       *time.Time            `json:"next_due,omitempty"`
	DisplayLabel  string                `json:"display_label"`
	CrossTimezone bool                  `json:"cross_timezone"`
	DaysLeft      int                   `json:"days_left"`
	RefillDate    *time.Time            `json:"refill_date,omitempty"`
	NeedsRefill   bool                  `json:"needs_refill"`
}

// TakeDose records one dose for a medication: today's log gains a count,
// LastTakenAt moves to now, and stock drains by the parsed dose quantity.
func (t *Tracker) TakeDose(ctx context.Context, id string, env schedule.Env) (*Overview, error) {
	med, err := t.meds.Get(id)
	if err != nil {
		return nil, err
	}

	count, err := t.logs.RecordDose(ctx, store.DateKey(env.Now), med.ID)
	if err != nil {
		return nil, err
	}

	med.LastTakenAt = env.Now.UnixMilli()
	med.Stock = inventory.DecrementStock(med)
	if err := t.meds.Update(med); err != nil {
		return nil, err
	}

	metrics.Default().RecordDoseLogged()
	t.logger.Info("Dose logged",
		zap.String("medication_id", med.ID),
		zap.String("name", med.Name),
		zap.Int("taken_today", count),
		zap.Float64("stock", med.Stock),
	)

	return t.overviewFor(med, count, env), nil
}

// Overview resolves the schedule state for every medication.
func (t *Tracker) Overview(ctx context.Context, env schedule.Env) ([]Overview, error) {
	meds, err := t.meds.List()
	if err != nil {
		return nil, err
	}

	rows := make([]Overview, 0, len(meds))
	for i := range meds {
		med := &meds[i]
		taken, err := t.logs.TakenToday(ctx, med.ID, env.Now)
		if err != nil {
			taken = 0
		}
		rows = append(rows, *t.overviewFor(med, taken, env))
	}
	return rows, nil
}

// OverviewByID resolves a single medication's schedule state.
func (t *Tracker) OverviewByID(ctx context.Context, id string, env schedule.Env) (*Overview, error) {
	med, err := t.meds.Get(id)
	if err != nil {
		return nil, err
	}
	taken, err := t.logs.TakenToday(ctx, med.ID, env.Now)
	if err != nil {
		taken = 0
	}
	return t.overviewFor(med, taken, env), nil
}

func (t *Tracker) overviewFor(med *medication.Medication, takenToday int, env schedule.Env) *Overview {
	return &Overview{
		Medication:    *med,
		TakenToday:    takenToday,
		NextDue:       schedule.NextOccurrence(env, med, takenToday),
		DisplayLabel:  schedule.DisplayLabel(env, med, takenToday),
		CrossTimezone: schedule.IsCrossTimezone(env, med),
		DaysLeft:      inventory.DaysLeft(med.Stock, med.Frequency),
		RefillDate:    inventory.PredictedRefillDate(env.Now, med.Stock, med.Frequency),
		NeedsRefill:   med.RefillThreshold > 0 && med.Stock <= med.RefillThreshold,
	}
}
