package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneOffsetMillis_SameZone(t *testing.T) {
	env := fixedEnv()
	assert.Equal(t, int64(0), ZoneOffsetMillis(env, "UTC"))
	assert.Equal(t, int64(0), ZoneOffsetMillis(env, ""))
}

func TestZoneOffsetMillis_KnownZones(t *testing.T) {
	env := fixedEnv() // January, so no US daylight saving

	assert.Equal(t, int64(-5*3600*1000), ZoneOffsetMillis(env, "America/New_York"))
	assert.Equal(t, int64(9*3600*1000), ZoneOffsetMillis(env, "Asia/Tokyo"))
}

func TestZoneOffsetMillis_InvalidZoneFailsOpen(t *testing.T) {
	env := fixedEnv()
	assert.Equal(t, int64(0), ZoneOffsetMillis(env, "Mars/OlympusMons"))
}

func TestConvertTimeOfDayToLocal(t *testing.T) {
	env := fixedEnv()

	// 09:00 in New York is 14:00 UTC in January.
	assert.Equal(t, "14:00", ConvertTimeOfDayToLocal(env, "09:00", "America/New_York"))

	// Same zone and empty zone are no-ops.
	assert.Equal(t, "09:00", ConvertTimeOfDayToLocal(env, "09:00", "UTC"))
	assert.Equal(t, "09:00", ConvertTimeOfDayToLocal(env, "09:00", ""))

	// Malformed input is passed through untouched.
	assert.Equal(t, "morning", ConvertTimeOfDayToLocal(env, "morning", "America/New_York"))
}

func TestConvertTimeOfDayToLocal_RoundTrip(t *testing.T) {
	zones := []string{"America/New_York", "Asia/Tokyo", "Europe/Berlin", "Australia/Sydney"}
	instant := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	for _, zoneA := range zones {
		locA, err := time.LoadLocation(zoneA)
		require.NoError(t, err)

		envA := Env{Now: instant.In(locA), Zone: locA}
		local := ConvertTimeOfDayToLocal(Env{Now: instant, Zone: time.UTC}, "09:00", zoneA)

		// Converting the local result back from UTC while standing in zone A
		// must recover the original wall-clock time.
		back := ConvertTimeOfDayToLocal(envA, local, "UTC")
		assert.Equal(t, "09:00", back, "round trip through %s", zoneA)
	}
}
