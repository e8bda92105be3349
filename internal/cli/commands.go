// Package cli implements the pillguard subcommands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/adherence"
	"github.com/pillguard/pillguard/internal/drugdb"
	"github.com/pillguard/pillguard/internal/medication"
	"github.com/pillguard/pillguard/internal/schedule"
	"github.com/pillguard/pillguard/internal/tracker"
)

// CLI bundles the services the subcommands need.
type CLI struct {
	Meds      *medication.Store
	Tracker   *tracker.Tracker
	Adherence *adherence.Aggregator
	Drugs     *drugdb.Client
	Logger    *zap.Logger
}

// HandleAddCommand adds a medication from command-line arguments.
func (c *CLI) HandleAddCommand(args []string) {
	med, err := parseAddArgs(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		PrintAddHelp()
		os.Exit(1)
	}

	med.OriginTimezone = schedule.Live().ZoneName()

	if err := c.Meds.Create(med); err != nil {
		fmt.Printf("Error adding medication: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Added %s (%s, %s)\n", med.Name, med.DosageText, med.Frequency)
	fmt.Printf("  ID: %s\n", med.ID)
}

// parseAddArgs builds a medication from add-command flags.
func parseAddArgs(args []string) (*medication.Medication, error) {
	med := &medication.Medication{
		Form:      medication.FormTablet,
		Frequency: medication.Daily,
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n", "--name":
			if i+1 < len(args) {
				med.Name = args[i+1]
				i++
			}
		case "-d", "--dosage":
			if i+1 < len(args) {
				med.DosageText = args[i+1]
				i++
			}
		case "-f", "--frequency":
			if i+1 < len(args) {
				med.Frequency = medication.Frequency(args[i+1])
				i++
			}
		case "--form":
			if i+1 < len(args) {
				med.Form = medication.DrugForm(args[i+1])
				i++
			}
		case "--times":
			if i+1 < len(args) {
				med.ScheduledTimes = strings.Split(args[i+1], ",")
				i++
			}
		case "--interval":
			if i+1 < len(args) {
				hours, err := strconv.Atoi(args[i+1])
				if err != nil {
					return nil, fmt.Errorf("invalid interval %q", args[i+1])
				}
				med.IntervalHours = hours
				i++
			}
		case "--stock":
			if i+1 < len(args) {
				stock, err := strconv.ParseFloat(args[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("invalid stock %q", args[i+1])
				}
				med.Stock = stock
				i++
			}
		case "--threshold":
			if i+1 < len(args) {
				threshold, err := strconv.ParseFloat(args[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("invalid threshold %q", args[i+1])
				}
				med.RefillThreshold = threshold
				i++
			}
		case "--notes":
			if i+1 < len(args) {
				med.Notes = args[i+1]
				i++
			}
		}
	}

	if med.Name == "" {
		return nil, fmt.Errorf("medication name is required")
	}
	if len(med.ScheduledTimes) == 1 && med.PrimaryTime == "" {
		med.PrimaryTime = med.ScheduledTimes[0]
	}

	return med, nil
}

// HandleListCommand prints every medication with its schedule state.
func (c *CLI) HandleListCommand() {
	rows, err := c.Tracker.Overview(context.Background(), schedule.Live())
	if err != nil {
		fmt.Printf("Error listing medications: %v\n", err)
		os.Exit(1)
	}

	if len(rows) == 0 {
		fmt.Println("No medications yet. Add one with: pillguard add -n <name> -d <dosage>")
		return
	}

	fmt.Println("Your Medications:")
	fmt.Println("=================")
	for _, row := range rows {
		med := row.Medication
		fmt.Printf("%s  %s (%s, %s)\n", statusIcon(row), med.Name, med.DosageText, med.Frequency)
		if row.DisplayLabel != "" {
			label := row.DisplayLabel
			if row.CrossTimezone {
				label += " [schedule from " + med.OriginTimezone + "]"
			}
			fmt.Printf("     Next dose: %s\n", label)
		}
		fmt.Printf("     Stock: %s | ID: %s\n", formatStock(med.Stock, row.DaysLeft), med.ID)
	}
}

// HandleTakeCommand logs a dose for a medication named by id or name.
func (c *CLI) HandleTakeCommand(args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: pillguard take <medication id or name>")
		os.Exit(1)
	}

	med, err := c.findMedication(strings.Join(args, " "))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	row, err := c.Tracker.TakeDose(context.Background(), med.ID, schedule.Live())
	if err != nil {
		fmt.Printf("Error logging dose: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Logged dose of %s (%d today)\n", med.Name, row.TakenToday)
	if row.DisplayLabel != "" {
		fmt.Printf("  Next dose: %s\n", row.DisplayLabel)
	}
	fmt.Printf("  Stock remaining: %.4g\n", row.Medication.Stock)
}

// HandleDueCommand shows medications with a pending dose today.
func (c *CLI) HandleDueCommand() {
	env := schedule.Live()
	rows, err := c.Tracker.Overview(context.Background(), env)
	if err != nil {
		fmt.Printf("Error listing medications: %v\n", err)
		os.Exit(1)
	}

	var due, upcoming []tracker.Overview
	for _, row := range rows {
		if row.NextDue == nil {
			continue
		}
		if !row.NextDue.After(env.Now) {
			due = append(due, row)
		} else if row.NextDue.YearDay() == env.Now.YearDay() && row.NextDue.Year() == env.Now.Year() {
			upcoming = append(upcoming, row)
		}
	}

	if len(due) == 0 && len(upcoming) == 0 {
		fmt.Println("Nothing due. You're all caught up.")
		return
	}

	if len(due) > 0 {
		fmt.Println("Due now:")
		for _, row := range due {
			fmt.Printf("  ! %s (%s)\n", row.Medication.Name, row.Medication.DosageText)
		}
	}
	if len(upcoming) > 0 {
		fmt.Println("Later today:")
		for _, row := range upcoming {
			fmt.Printf("  - %s at %s\n", row.Medication.Name, row.DisplayLabel)
		}
	}
}

// HandleStatsCommand prints adherence over a lookback window.
func (c *CLI) HandleStatsCommand(args []string) {
	days := 30
	for i := 0; i < len(args); i++ {
		if args[i] == "-d" || args[i] == "--days" {
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil {
					days = n
				}
				i++
			}
		}
	}

	env := schedule.Live()
	meds, err := c.Meds.List()
	if err != nil {
		fmt.Printf("Error listing medications: %v\n", err)
		os.Exit(1)
	}

	stats, err := c.Adherence.Stats(context.Background(), meds, days, env.Now)
	if err != nil {
		fmt.Printf("Error computing adherence: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Adherence (last %d days):\n", days)
	fmt.Println("=========================")
	fmt.Printf("Rate:      %d%%\n", stats.Rate)
	fmt.Printf("Taken:     %d doses\n", stats.TotalTaken)
	fmt.Printf("Scheduled: %d doses\n", stats.TotalScheduled)
}

// HandleRefillCommand shows medications at or below their refill threshold.
func (c *CLI) HandleRefillCommand() {
	rows, err := c.Tracker.Overview(context.Background(), schedule.Live())
	if err != nil {
		fmt.Printf("Error listing medications: %v\n", err)
		os.Exit(1)
	}

	var low []tracker.Overview
	for _, row := range rows {
		if row.NeedsRefill {
			low = append(low, row)
		}
	}

	if len(low) == 0 {
		fmt.Println("All medications are stocked above their refill thresholds.")
		return
	}

	fmt.Println("Needs refill:")
	for _, row := range low {
		line := fmt.Sprintf("  ! %s: %.4g left", row.Medication.Name, row.Medication.Stock)
		if row.RefillDate != nil {
			line += fmt.Sprintf(" (runs out around %s)", row.RefillDate.Format("Jan 2"))
		}
		fmt.Println(line)
	}
}

// HandleSearchCommand looks up drug names, or a label with --label.
func (c *CLI) HandleSearchCommand(args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: pillguard search <drug name>")
		fmt.Println("       pillguard search --label <drug name>")
		os.Exit(1)
	}

	ctx := context.Background()

	if args[0] == "--label" || args[0] == "-l" {
		if len(args) < 2 {
			fmt.Println("Usage: pillguard search --label <drug name>")
			os.Exit(1)
		}
		name := strings.Join(args[1:], " ")

		details, err := c.Drugs.LabelDetails(ctx, name)
		if err != nil {
			fmt.Printf("No label found for %q\n", name)
			os.Exit(1)
		}

		fmt.Printf("%s\n", details.BrandName)
		fmt.Println(strings.Repeat("=", len(details.BrandName)))
		fmt.Printf("Indications: %s\n\n", details.Indications)
		fmt.Printf("Warnings: %s\n\n", details.Warnings)
		fmt.Printf("Adverse reactions: %s\n", details.Reactions)
		return
	}

	query := strings.Join(args, " ")
	results := c.Drugs.Search(ctx, query)
	if len(results) == 0 {
		fmt.Printf("No matches for %q\n", query)
		return
	}

	fmt.Printf("Matches for %q:\n", query)
	for _, r := range results {
		if r.RxCUI != "" {
			fmt.Printf("  %s (RxCUI %s)\n", r.Name, r.RxCUI)
		} else {
			fmt.Printf("  %s\n", r.Name)
		}
	}
}

// findMedication resolves an id or a case-insensitive name match.
func (c *CLI) findMedication(idOrName string) (*medication.Medication, error) {
	if med, err := c.Meds.Get(idOrName); err == nil {
		return med, nil
	}

	meds, err := c.Meds.List()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(idOrName)
	for i := range meds {
		if strings.ToLower(meds[i].Name) == needle {
			return &meds[i], nil
		}
	}
	for i := range meds {
		if strings.HasPrefix(strings.ToLower(meds[i].Name), needle) {
			return &meds[i], nil
		}
	}

	return nil, fmt.Errorf("no medication matching %q", idOrName)
}

func statusIcon(row tracker.Overview) string {
	switch {
	case row.NeedsRefill:
		return "⚠️"
	case row.DisplayLabel == "Due Now":
		return "⏰"
	default:
		return "💊"
	}
}

// formatStock renders stock with a rough days-remaining hint.
func formatStock(stock float64, daysLeft int) string {
	if daysLeft >= 999 {
		return fmt.Sprintf("%.4g", stock)
	}
	return fmt.Sprintf("%.4g (~%d days)", stock, daysLeft)
}

// PrintAddHelp prints usage for the add command.
func PrintAddHelp() {
	fmt.Println("Usage: pillguard add -n <name> -d <dosage> [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -n, --name <name>        Medication name (required)")
	fmt.Println("  -d, --dosage <text>      Dosage, e.g. '10mg' or '2 tablets'")
	fmt.Println("  -f, --frequency <freq>   Daily | 'Twice Daily' | Weekly | 'As Needed' | 'Every X Hours'")
	fmt.Println("  --form <form>            tablet | capsule | liquid | injection | cream | other")
	fmt.Println("  --times <HH:mm,...>      Scheduled times, e.g. 08:00,20:00")
	fmt.Println("  --interval <hours>       Dose interval for 'Every X Hours'")
	fmt.Println("  --stock <n>              Doses on hand")
	fmt.Println("  --threshold <n>          Refill alert threshold")
	fmt.Println("  --notes <text>           Free-form notes")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  pillguard add -n Lisinopril -d 10mg --times 08:00 --stock 30 --threshold 7")
	fmt.Println("  pillguard add -n Metformin -d 500mg -f 'Twice Daily' --times 08:00,20:00")
	fmt.Println("  pillguard add -n Ibuprofen -d '1-2 tablets' -f 'As Needed'")
}

// PrintExtendedHelp prints the top-level usage.
func PrintExtendedHelp() {
	fmt.Println("PillGuard - Personal Medication Reminder")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pillguard                  Run in server mode (API + reminders)")
	fmt.Println("  pillguard add [options]    Add a medication")
	fmt.Println("  pillguard list             List medications and next doses")
	fmt.Println("  pillguard take <id|name>   Log a dose as taken")
	fmt.Println("  pillguard due              Show doses due now and later today")
	fmt.Println("  pillguard stats [-d days]  Show adherence statistics")
	fmt.Println("  pillguard refill           Show medications running low")
	fmt.Println("  pillguard search <name>    Look up a drug name")
	fmt.Println("  pillguard search -l <name> Look up FDA label details")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --config <path>          Path to config file")
	fmt.Println("  --data <path>            Path to data directory")
	fmt.Println("  --help, -h               Show this help")
	fmt.Println("  --version, -v            Show version")
}
