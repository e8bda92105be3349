package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type Metrics struct {
	startTime time.Time

	dosesLogged   atomic.Int64
	remindersSent atomic.Int64
	refillAlerts  atomic.Int64
	monitorTicks  atomic.Int64

	lookupsServed   atomic.Int64
	lookupFallbacks atomic.Int64
	cacheHits       atomic.Int64

	chatRequests  atomic.Int64
	chatFallbacks atomic.Int64
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

func Default() *Metrics {
	once.Do(func() {
		defaultMetrics = New()
	})
	return defaultMetrics
}

func New() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) RecordDoseLogged()   { m.dosesLogged.Add(1) }
func (m *Metrics) RecordReminderSent() { m.remindersSent.Add(1) }
func (m *Metrics) RecordRefillAlert()  { m.refillAlerts.Add(1) }
func (m *Metrics) RecordMonitorTick()  { m.monitorTicks.Add(1) }
func (m *Metrics) RecordCacheHit()     { m.cacheHits.Add(1) }

func (m *Metrics) RecordLookup(fallback bool) {
	m.lookupsServed.Add(1)
	if fallback {
		m.lookupFallbacks.Add(1)
	}
}

func (m *Metrics) RecordChat(fallback bool) {
	m.chatRequests.Add(1)
	if fallback {
		m.chatFallbacks.Add(1)
	}
}

// Snapshot returns current counter values for the stats endpoint.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"uptime_seconds":   int64(time.Since(m.startTime).Seconds()),
		"doses_logged":     m.dosesLogged.Load(),
		"reminders_sent":   m.remindersSent.Load(),
		"refill_alerts":    m.refillAlerts.Load(),
		"monitor_ticks":    m.monitorTicks.Load(),
		"lookups_served":   m.lookupsServed.Load(),
		"lookup_fallbacks": m.lookupFallbacks.Load(),
		"cache_hits":       m.cacheHits.Load(),
		"chat_requests":    m.chatRequests.Load(),
		"chat_fallbacks":   m.chatFallbacks.Load(),
	}
}
