// Package adherence computes how faithfully scheduled doses were taken over
// a rolling window of daily logs.
package adherence

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/medication"
	"github.com/pillguard/pillguard/internal/store"
)

// LogReader is the slice of the store the aggregator needs.
type LogReader interface {
	DailyLog(ctx context.Context, dateKey string) (map[string]int, error)
}

// Stats summarizes adherence over a lookback window.
type Stats struct {
	Rate           int `json:"rate"` // 0-100
	TotalTaken     int `json:"total_taken"`
	TotalScheduled int `json:"total_scheduled"`
}

// Aggregator walks daily taken-logs and scores them against expected doses.
type Aggregator struct {
	logs     LogReader
	logger   *zap.Logger
	maxReads int
}

// New creates an adherence aggregator.
func New(logs LogReader, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		logs:     logs,
		logger:   logger,
		maxReads: 8,
	}
}

// Stats computes adherence for the last lookbackDays calendar days ending
// today. Logs are independent, so they are fetched concurrently and joined
// before aggregation. AsNeeded medications have no expectation and Weekly
// ones no daily slot, so both are excluded. Doses beyond the daily
// expectation earn no extra credit. With nothing scheduled at all the rate
// is 100 by convention.
func (a *Aggregator) Stats(ctx context.Context, meds []medication.Medication, lookbackDays int, now time.Time) (Stats, error) {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}

	logs := make([]map[string]int, lookbackDays)

	sem := make(chan struct{}, a.maxReads)
	var wg sync.WaitGroup

	for i := 0; i < lookbackDays; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			dateKey := store.DateKey(now.AddDate(0, 0, -i))
			log, err := a.logs.DailyLog(ctx, dateKey)
			if err != nil {
				// Missing or unreadable day counts as no doses logged.
				a.logger.Debug("daily log unavailable", zap.String("date", dateKey), zap.Error(err))
				log = map[string]int{}
			}
			logs[i] = log
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	stats := Stats{}
	for _, log := range logs {
		for _, med := range meds {
			if med.Frequency == medication.AsNeeded || med.Frequency == medication.Weekly {
				continue
			}

			expected := med.Frequency.DosesPerDay()
			stats.TotalScheduled += expected

			taken := log[med.ID]
			if taken > expected {
				taken = expected
			}
			stats.TotalTaken += taken
		}
	}

	if stats.TotalScheduled == 0 {
		stats.Rate = 100
		return stats, nil
	}

	stats.Rate = int(math.Round(100 * float64(stats.TotalTaken) / float64(stats.TotalScheduled)))
	return stats, nil
}
