// Package monitor polls every medication's next occurrence on a fixed
// interval and fires reminders for doses that just came due. It is
// best-effort and tolerant of missed ticks: OS-level notifications are the
// authoritative delivery path, this keeps the foreground app honest.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/inventory"
	"github.com/pillguard/pillguard/internal/medication"
	"github.com/pillguard/pillguard/internal/metrics"
	"github.com/pillguard/pillguard/internal/notify"
	"github.com/pillguard/pillguard/internal/schedule"
)

// medicationStore is the slice of the medication store the monitor needs.
type medicationStore interface {
	List() ([]medication.Medication, error)
	Update(med *medication.Medication) error
}

// doseLog reads today's taken-counts.
type doseLog interface {
	TakenToday(ctx context.Context, medicationID string, now time.Time) (int, error)
}

// Config holds monitor settings
type Config struct {
	Interval   time.Duration // poll cadence
	Window     time.Duration // how far back a due time still counts as "just due"
	RefillCron string        // cron spec for the daily refill sweep
}

// Monitor watches for due doses and low stock.
type Monitor struct {
	config   Config
	meds     medicationStore
	logs     doseLog
	notifier notify.Notifier
	logger   *zap.Logger
	cron     *cron.Cron

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates a monitor.
func New(cfg Config, meds medicationStore, logs doseLog, notifier notify.Notifier, logger *zap.Logger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Window <= 0 {
		cfg.Window = cfg.Interval + 15*time.Second
	}
	if cfg.RefillCron == "" {
		cfg.RefillCron = "0 9 * * *"
	}

	return &Monitor{
		config:   cfg,
		meds:     meds,
		logs:     logs,
		notifier: notifier,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the polling loop and the refill sweep.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("monitor already running")
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.mu.Unlock()

	m.cron = cron.New()
	if _, err := m.cron.AddFunc(m.config.RefillCron, func() {
		m.CheckRefills(ctx, schedule.Live())
	}); err != nil {
		return fmt.Errorf("invalid refill cron spec %q: %w", m.config.RefillCron, err)
	}
	m.cron.Start()

	m.logger.Info("Starting dose monitor",
		zap.Duration("interval", m.config.Interval),
		zap.Duration("window", m.config.Window),
	)

	m.wg.Add(1)
	go m.run(ctx)

	return nil
}

// Stop stops the monitor and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()

	if m.cron != nil {
		m.cron.Stop()
	}
	m.wg.Wait()
	m.logger.Info("Dose monitor stopped")
}

// IsRunning returns whether the loop is active.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	m.CheckDue(ctx, schedule.Live())

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.CheckDue(ctx, schedule.Live())
		}
	}
}

// CheckDue recomputes every medication's next occurrence from scratch and
// notifies for any that fell due within the window since the last tick.
// Deduplication rides on LastNotifiedAt so a dose is announced once.
func (m *Monitor) CheckDue(ctx context.Context, env schedule.Env) {
	metrics.Default().RecordMonitorTick()

	meds, err := m.meds.List()
	if err != nil {
		m.logger.Error("Failed to list medications", zap.Error(err))
		return
	}

	for i := range meds {
		med := &meds[i]

		takenToday, err := m.logs.TakenToday(ctx, med.ID, env.Now)
		if err != nil {
			m.logger.Warn("Failed to read today's log", zap.String("medication_id", med.ID), zap.Error(err))
			continue
		}

		next := schedule.NextOccurrence(env, med, takenToday)
		if next == nil {
			continue
		}

		dueFor := env.Now.Sub(*next)
		if dueFor < 0 || dueFor > m.config.Window {
			continue
		}
		if med.LastNotifiedAt >= next.UnixMilli() {
			continue
		}

		body := fmt.Sprintf("It's time to take your %s (%s)", med.Name, med.DosageText)
		if err := m.notifier.Send(ctx, "Medication Reminder", body); err != nil {
			m.logger.Warn("Failed to send reminder", zap.String("medication_id", med.ID), zap.Error(err))
			continue
		}
		metrics.Default().RecordReminderSent()

		med.LastNotifiedAt = env.Now.UnixMilli()
		if err := m.meds.Update(med); err != nil {
			m.logger.Warn("Failed to record notification time", zap.String("medication_id", med.ID), zap.Error(err))
		}
	}
}

// CheckRefills notifies for medications at or below their refill threshold,
// including the predicted run-out date when it is near enough to matter.
func (m *Monitor) CheckRefills(ctx context.Context, env schedule.Env) {
	meds, err := m.meds.List()
	if err != nil {
		m.logger.Error("Failed to list medications", zap.Error(err))
		return
	}

	for i := range meds {
		med := &meds[i]
		if med.RefillThreshold <= 0 || med.Stock > med.RefillThreshold {
			continue
		}

		body := fmt.Sprintf("%s is running low: %.4g left (threshold %.4g)", med.Name, med.Stock, med.RefillThreshold)
		if date := inventory.PredictedRefillDate(env.Now, med.Stock, med.Frequency); date != nil {
			body += fmt.Sprintf(", runs out around %s", date.Format("Jan 2"))
		}

		if err := m.notifier.Send(ctx, "Refill Reminder", body); err != nil {
			m.logger.Warn("Failed to send refill alert", zap.String("medication_id", med.ID), zap.Error(err))
			continue
		}
		metrics.Default().RecordRefillAlert()
	}
}
