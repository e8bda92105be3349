package schedule

import (
	"fmt"

	"github.com/pillguard/pillguard/internal/medication"
)

// DisplayLabel renders the next-dose time as user-facing text.
func DisplayLabel(e Env, med *medication.Medication, takenToday int) string {
	if med.Frequency == medication.EveryXHours && med.IntervalHours > 0 {
		next := NextOccurrence(e, med, takenToday)
		if next == nil {
			return "Not started"
		}
		if next.Before(e.Now) {
			return "Due Now"
		}
		return next.In(e.location()).Format("15:04")
	}

	slots := Slots(med)
	if len(slots) == 0 {
		return ""
	}

	zone := med.OriginTimezone
	if zone == "" {
		zone = e.ZoneName()
	}

	if takenToday >= len(slots) {
		return fmt.Sprintf("%s (Tomorrow)", ConvertTimeOfDayToLocal(e, slots[0], zone))
	}
	return ConvertTimeOfDayToLocal(e, slots[takenToday], zone)
}

// IsCrossTimezone reports whether the medication's schedule was authored in
// a zone other than the device's current one. Interval dosing is anchored to
// absolute instants, so it is never cross-timezone.
func IsCrossTimezone(e Env, med *medication.Medication) bool {
	if med.Frequency == medication.EveryXHours {
		return false
	}
	return med.OriginTimezone != "" && med.OriginTimezone != e.ZoneName()
}
