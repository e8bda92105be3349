package schedule

import (
	"time"

	"github.com/pillguard/pillguard/internal/medication"
)

// NextOccurrence returns the absolute device-local time the next dose is
// due, or nil when the medication has no schedule at all.
//
// Interval dosing anchors strictly on the last taken dose: takenToday is
// ignored, so doses taken inside one interval window do not push the next
// occurrence out. Fixed-time dosing indexes today's slots by takenToday and
// rolls over to tomorrow's first slot once they are exhausted.
//
// A returned time at or before e.Now means the dose is due or overdue.
// Callers must treat it as such, not as an error.
func NextOccurrence(e Env, med *medication.Medication, takenToday int) *time.Time {
	if med.Frequency == medication.EveryXHours && med.IntervalHours > 0 {
		return nextInterval(e, med)
	}
	return nextFixed(e, med, takenToday)
}

func nextInterval(e Env, med *medication.Medication) *time.Time {
	if last, ok := med.LastTaken(); ok {
		next := last.Add(time.Duration(med.IntervalHours) * time.Hour).In(e.location())
		return &next
	}

	// Never taken: the first dose anchors to the configured start time on
	// today's date, not to "now".
	if med.PrimaryTime == "" {
		now := e.Now
		return &now
	}
	h, m, err := parseTimeOfDay(med.PrimaryTime)
	if err != nil {
		now := e.Now
		return &now
	}
	start := time.Date(e.Now.Year(), e.Now.Month(), e.Now.Day(), h, m, 0, 0, e.location())
	return &start
}

func nextFixed(e Env, med *medication.Medication, takenToday int) *time.Time {
	slots := Slots(med)
	if len(slots) == 0 {
		return nil
	}

	target := slots[0]
	tomorrow := true
	if takenToday < len(slots) {
		target = slots[takenToday]
		tomorrow = false
	}

	h, m, err := parseTimeOfDay(target)
	if err != nil {
		return nil
	}

	zone := med.OriginTimezone
	if zone == "" {
		zone = e.ZoneName()
	}
	offset := ZoneOffsetMillis(e, zone)

	day := e.Now.Day()
	if tomorrow {
		day++
	}
	candidate := time.Date(e.Now.Year(), e.Now.Month(), day, h, m, 0, 0, e.location())

	// Shift the authored wall-clock time into device-local terms. No
	// clamping: a past result is the caller's "overdue" signal.
	next := candidate.Add(-time.Duration(offset) * time.Millisecond)
	return &next
}

// Slots returns the effective fixed-time schedule: the scheduled times if
// present, else the legacy primary time, else nothing.
func Slots(med *medication.Medication) []string {
	if len(med.ScheduledTimes) > 0 {
		return med.ScheduledTimes
	}
	if med.PrimaryTime != "" {
		return []string{med.PrimaryTime}
	}
	return nil
}
