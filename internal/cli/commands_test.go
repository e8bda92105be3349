package cli

import (
	"testing"

	"github.com/pillguard/pillguard/internal/medication"
)

func TestParseAddArgs(t *testing.T) {
	med, err := parseAddArgs([]string{
		"-n", "Metformin",
		"-d", "500mg",
		"-f", "Twice Daily",
		"--times", "08:00,20:00",
		"--stock", "60",
		"--threshold", "10",
	})
	if err != nil {
		t.Fatalf("parseAddArgs returned error: %v", err)
	}

	if med.Name != "Metformin" {
		t.Errorf("Name = %q, want Metformin", med.Name)
	}
	if med.Frequency != medication.TwiceDaily {
		t.Errorf("Frequency = %q, want %q", med.Frequency, medication.TwiceDaily)
	}
	if len(med.ScheduledTimes) != 2 {
		t.Errorf("ScheduledTimes = %v, want 2 entries", med.ScheduledTimes)
	}
	if med.Stock != 60 {
		t.Errorf("Stock = %v, want 60", med.Stock)
	}
	if med.RefillThreshold != 10 {
		t.Errorf("RefillThreshold = %v, want 10", med.RefillThreshold)
	}
}

func TestParseAddArgs_Defaults(t *testing.T) {
	med, err := parseAddArgs([]string{"-n", "Aspirin"})
	if err != nil {
		t.Fatalf("parseAddArgs returned error: %v", err)
	}

	if med.Frequency != medication.Daily {
		t.Errorf("Frequency = %q, want Daily default", med.Frequency)
	}
	if med.Form != medication.FormTablet {
		t.Errorf("Form = %q, want tablet default", med.Form)
	}
}

func TestParseAddArgs_SingleTimeBecomesPrimary(t *testing.T) {
	med, err := parseAddArgs([]string{"-n", "Lisinopril", "--times", "08:00"})
	if err != nil {
		t.Fatalf("parseAddArgs returned error: %v", err)
	}
	if med.PrimaryTime != "08:00" {
		t.Errorf("PrimaryTime = %q, want 08:00", med.PrimaryTime)
	}
}

func TestParseAddArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing name", []string{"-d", "10mg"}},
		{"bad interval", []string{"-n", "X", "--interval", "four"}},
		{"bad stock", []string{"-n", "X", "--stock", "lots"}},
		{"bad threshold", []string{"-n", "X", "--threshold", "few"}},
	}

	for _, tt := range tests {
		if _, err := parseAddArgs(tt.args); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestFormatStock(t *testing.T) {
	tests := []struct {
		stock    float64
		daysLeft int
		expected string
	}{
		{30, 30, "30 (~30 days)"},
		{0.5, 0, "0.5 (~0 days)"},
		{10, 999, "10"},
	}

	for _, tt := range tests {
		result := formatStock(tt.stock, tt.daysLeft)
		if result != tt.expected {
			t.Errorf("formatStock(%v, %d) = %q, want %q", tt.stock, tt.daysLeft, result, tt.expected)
		}
	}
}

func TestPrintFunctions(t *testing.T) {
	PrintExtendedHelp()
	PrintAddHelp()
}
