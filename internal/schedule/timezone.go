package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ZoneOffsetMillis returns the difference, in milliseconds, between the wall
// clock of zone and the wall clock of the device zone at the current instant.
// Evaluating at e.Now means daylight-saving differences on that date are
// already folded in. Returns 0 for the device zone itself and for any zone
// that fails to resolve: a wrong-but-local time beats a crash.
func ZoneOffsetMillis(e Env, zone string) int64 {
	if zone == "" || zone == e.ZoneName() {
		return 0
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return 0
	}

	_, targetOffset := e.Now.In(loc).Zone()
	_, deviceOffset := e.Now.In(e.location()).Zone()

	return int64(targetOffset-deviceOffset) * 1000
}

// ConvertTimeOfDayToLocal reinterprets a wall-clock "HH:mm" authored in
// originZone as the equivalent device-local wall-clock time. No-op when the
// origin zone is absent, equal to the device zone, or the input is malformed.
func ConvertTimeOfDayToLocal(e Env, timeOfDay, originZone string) string {
	if timeOfDay == "" || originZone == "" || originZone == e.ZoneName() {
		return timeOfDay
	}

	h, m, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return timeOfDay
	}

	offset := ZoneOffsetMillis(e, originZone)

	origin := time.Date(e.Now.Year(), e.Now.Month(), e.Now.Day(), h, m, 0, 0, e.location())
	local := origin.Add(-time.Duration(offset) * time.Millisecond)

	return local.Format("15:04")
}

// parseTimeOfDay splits an "HH:mm" string into hour and minute.
func parseTimeOfDay(s string) (int, int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("malformed hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("malformed minute in %q", s)
	}
	return h, m, nil
}
