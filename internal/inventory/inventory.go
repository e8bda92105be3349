// Package inventory projects medication stock: how fast it drains, when it
// runs out, and how much a single dose deducts.
package inventory

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pillguard/pillguard/internal/medication"
)

// FarFutureDays is the sentinel returned by DaysLeft when usage is zero.
const FarFutureDays = 999

// refillHorizonDays caps refill prediction; anything further out is noise.
const refillHorizonDays = 365

var leadingNumber = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// DailyUsage returns the estimated units consumed per day for a frequency.
// AsNeeded is a heuristic half dose per day.
func DailyUsage(f medication.Frequency) float64 {
	switch f {
	case medication.Daily:
		return 1
	case medication.TwiceDaily:
		return 2
	case medication.Weekly:
		return 1.0 / 7.0
	case medication.AsNeeded:
		return 0.5
	case medication.EveryXHours:
		return 1
	default:
		return 1
	}
}

// DaysLeft returns how many whole days the current stock lasts.
func DaysLeft(stock float64, f medication.Frequency) int {
	usage := DailyUsage(f)
	if usage == 0 {
		return FarFutureDays
	}
	return int(math.Floor(stock / usage))
}

// PredictedRefillDate returns the date stock runs out, or nil when that is
// more than a year away.
func PredictedRefillDate(now time.Time, stock float64, f medication.Frequency) *time.Time {
	daysLeft := DaysLeft(stock, f)
	if daysLeft > refillHorizonDays {
		return nil
	}
	date := now.AddDate(0, 0, daysLeft)
	return &date
}

// DecrementStock returns the stock after one dose.
//
// The quantity comes from the first numeric token of the free-text dosage.
// Liquids, injections and creams deduct that amount directly ("5ml" drains
// 5). Tablets and capsules deduct it only when the text names a countable
// unit ("2 tablets"); a bare number there is almost always a strength
// ("500mg"), so the deduction defaults to 1. Parse failures also deduct 1.
// The result never goes below zero.
func DecrementStock(med *medication.Medication) float64 {
	qty := 1.0

	if parsed, ok := parseLeadingQuantity(med.DosageText); ok {
		switch med.Form {
		case medication.FormLiquid, medication.FormInjection, medication.FormCream:
			qty = parsed
		case medication.FormTablet, medication.FormCapsule:
			if hasUnitWord(med.DosageText) {
				qty = parsed
			}
		default:
			if hasUnitWord(med.DosageText) {
				qty = parsed
			}
		}
	}

	return math.Max(0, med.Stock-qty)
}

func parseLeadingQuantity(dosage string) (float64, bool) {
	match := leadingNumber.FindString(dosage)
	if match == "" {
		return 0, false
	}
	qty, err := strconv.ParseFloat(match, 64)
	if err != nil || qty <= 0 {
		return 0, false
	}
	return qty, true
}

func hasUnitWord(dosage string) bool {
	lower := strings.ToLower(dosage)
	for _, word := range []string{"tablet", "capsule", "pill"} {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
