package cmd

import (
	"fmt"
	"strconv"

	"finsim/internal/cli"
	"finsim/internal/engine"

	"github.com/spf13/cobra"
)

var spendCmd = &cobra.Command{
	Use:   "spend <amount> <category>",
	Short: "Record a purchase against the spending restrictions",
	Long:  "Checks the purchase against the configured limits (monthly cap, daily limit, category limit, in that order) and records it if allowed.",
	Args:  cobra.ExactArgs(2),
	RunE:  runSpend,
}

func init() {
	rootCmd.AddCommand(spendCmd)
}

func runSpend(_ *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", args[0], err)
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %v", amount)
	}
	categoryID := args[1]

	eng, db, cfg, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	check := eng.CheckRestriction(amount, categoryID)
	if !check.Allowed {
		fmt.Println()
		fmt.Printf("  Blocked: %s\n", blockedReason(check.Reason, categoryID))
		printUsage(eng)
		fmt.Println()
		return nil
	}

	eng.RecordSpending(amount, categoryID)
	if err := saveSimulation(eng, db); err != nil {
		return err
	}

	fmt.Printf("  Recorded %s against %s\n", cli.FormatMoney(amount, cfg.General.CurrencyLabel), categoryID)
	printUsage(eng)
	return nil
}

func blockedReason(reason engine.RestrictionReason, categoryID string) string {
	switch reason {
	case engine.ReasonMonthlyCap:
		return "this would exceed your monthly spending cap"
	case engine.ReasonDailyLimit:
		return "this would exceed your daily spending limit"
	case engine.ReasonCategoryLimit:
		return fmt.Sprintf("this would exceed the limit for category %q", categoryID)
	default:
		return string(reason)
	}
}

func printUsage(eng *engine.Engine) {
	usage := eng.RestrictionUsage()
	if len(usage) == 0 {
		return
	}

	warnAt := 100.0
	if r := eng.Snapshot().Restrictions; r != nil {
		warnAt = r.WarnAtPercent
	}

	rows := make([][]string, 0, len(usage))
	for _, u := range usage {
		status := ""
		switch {
		case u.Exceeded:
			status = "exceeded"
		case u.Warning:
			status = "warning"
		}
		rows = append(rows, []string{
			usageLabel(u),
			cli.RenderRestrictionGauge(u.Spent, u.Limit, warnAt, 16),
			status,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Limits",
		Headers: []string{"Limit", "Usage", "Status"},
		Rows:    rows,
	}))
}

func usageLabel(u engine.RestrictionUsage) string {
	switch u.Dimension {
	case engine.ReasonMonthlyCap:
		return "Monthly cap"
	case engine.ReasonDailyLimit:
		return "Daily limit"
	case engine.ReasonCategoryLimit:
		return "Category " + u.CategoryID
	default:
		return string(u.Dimension)
	}
}
