package medication

import (
	"sort"
	"time"

	apperrors "github.com/pillguard/pillguard/internal/errors"
)

// Frequency is the dosing pattern of a medication.
type Frequency string

const (
	Daily       Frequency = "Daily"
	TwiceDaily  Frequency = "Twice Daily"
	Weekly      Frequency = "Weekly"
	AsNeeded    Frequency = "As Needed"
	EveryXHours Frequency = "Every X Hours"
)

// Frequencies lists every valid frequency, for validation and UI pickers.
func Frequencies() []Frequency {
	return []Frequency{Daily, TwiceDaily, Weekly, AsNeeded, EveryXHours}
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, TwiceDaily, Weekly, AsNeeded, EveryXHours:
		return true
	}
	return false
}

// DosesPerDay returns the expected number of doses per day for adherence
// accounting. AsNeeded and interval dosing have no fixed expectation.
func (f Frequency) DosesPerDay() int {
	switch f {
	case TwiceDaily:
		return 2
	default:
		return 1
	}
}

// DrugForm is the physical form of a medication, which decides how the
// dosage text maps to a stock deduction.
type DrugForm string

const (
	FormTablet    DrugForm = "tablet"
	FormCapsule   DrugForm = "capsule"
	FormLiquid    DrugForm = "liquid"
	FormInjection DrugForm = "injection"
	FormCream     DrugForm = "cream"
	FormOther     DrugForm = "other"
)

// Valid reports whether d is a known form.
func (d DrugForm) Valid() bool {
	switch d {
	case FormTablet, FormCapsule, FormLiquid, FormInjection, FormCream, FormOther:
		return true
	}
	return false
}

// Medication is a tracked medication with its dosing schedule.
type Medication struct {
	ID            string `json:"id" gorm:"primaryKey"`
	Name          string `json:"name"`
	CanonicalName string `json:"canonical_name,omitempty"`
	RxCUI         string `json:"rxcui,omitempty"`

	DosageText string   `json:"dosage"`
	Form       DrugForm `json:"form,omitempty"`

	Frequency      Frequency `json:"frequency"`
	ScheduledTimes []string  `json:"times" gorm:"-"`           // ["08:00", "20:00"]
	TimesJSON      string    `json:"-" gorm:"type:text"`       // serialized ScheduledTimes
	PrimaryTime    string    `json:"time,omitempty"`           // legacy single time, interval start
	IntervalHours  int       `json:"interval_hours,omitempty"` // only for EveryXHours

	LastTakenAt    int64  `json:"last_taken,omitempty"`    // ms since epoch, 0 = never
	LastNotifiedAt int64  `json:"last_notified,omitempty"` // ms since epoch
	OriginTimezone string `json:"timezone,omitempty"`      // IANA zone captured at creation

	Stock           float64 `json:"stock"`
	RefillThreshold float64 `json:"refill_threshold"`

	Notes string `json:"notes,omitempty"`
	Color string `json:"color,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LastTaken returns the last-taken instant, or false when never taken.
func (m *Medication) LastTaken() (time.Time, bool) {
	if m.LastTakenAt == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(m.LastTakenAt), true
}

// Validate checks the invariants between frequency and schedule fields.
func (m *Medication) Validate() error {
	if m.Name == "" {
		return apperrors.New("MED_004", "medication name is required")
	}
	if !m.Frequency.Valid() {
		return apperrors.ErrInvalidFrequency
	}
	if m.Stock < 0 {
		return apperrors.New("MED_005", "stock must not be negative")
	}

	switch m.Frequency {
	case EveryXHours:
		if m.IntervalHours <= 0 {
			return apperrors.New("MED_003", "interval hours must be positive for interval dosing")
		}
		// Interval dosing ignores fixed slots entirely.
		m.ScheduledTimes = nil
	case TwiceDaily:
		if len(m.ScheduledTimes) != 2 {
			return apperrors.New("MED_003", "twice daily requires exactly 2 scheduled times")
		}
		sort.Strings(m.ScheduledTimes)
	}

	return nil
}
