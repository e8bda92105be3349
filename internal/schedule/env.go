// Package schedule computes when a medication's next dose is due and how
// that moment should be shown to the user, including corrections for
// medications whose schedule was authored in a different timezone.
package schedule

import "time"

// Env carries the current instant and the device timezone. Both are
// injected so occurrence math is deterministic under test.
type Env struct {
	Now  time.Time
	Zone *time.Location
}

// Live returns an Env reflecting the host clock and timezone.
func Live() Env {
	return Env{Now: time.Now(), Zone: time.Local}
}

// ZoneName returns the IANA name of the device zone.
func (e Env) ZoneName() string {
	if e.Zone == nil {
		return time.Local.String()
	}
	return e.Zone.String()
}

func (e Env) location() *time.Location {
	if e.Zone == nil {
		return time.Local
	}
	return e.Zone
}
