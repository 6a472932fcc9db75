package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"finsim/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagRestrictDaily    float64
	flagRestrictMonthly  float64
	flagRestrictCategory []string
	flagRestrictWarnAt   float64
	flagRestrictClear    bool
)

var restrictCmd = &cobra.Command{
	Use:   "restrict",
	Short: "Configure spending restrictions",
	Long:  "Sets spending guardrails. Applying a new configuration resets all spent counters. Zero means no limit on that dimension.",
	RunE:  runRestrict,
}

var restrictShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current restriction usage",
	RunE:  runRestrictShow,
}

func init() {
	restrictCmd.Flags().Float64Var(&flagRestrictDaily, "daily", 0, "Daily spending limit (0 = none)")
	restrictCmd.Flags().Float64Var(&flagRestrictMonthly, "monthly", 0, "Monthly spending cap (0 = none)")
	restrictCmd.Flags().StringArrayVar(&flagRestrictCategory, "category", nil, "Per-category limit as id=amount (repeatable)")
	restrictCmd.Flags().Float64Var(&flagRestrictWarnAt, "warn-at", model.DefaultWarnAtPercent, "Warning threshold percent")
	restrictCmd.Flags().BoolVar(&flagRestrictClear, "clear", false, "Remove all restrictions")

	restrictCmd.AddCommand(restrictShowCmd)
	rootCmd.AddCommand(restrictCmd)
}

func runRestrict(cmd *cobra.Command, _ []string) error {
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if !flagRestrictClear && !cmd.Flags().Changed("daily") &&
		!cmd.Flags().Changed("monthly") && !cmd.Flags().Changed("category") {
		return runRestrictShow(cmd, nil)
	}

	r := model.BudgetRestrictions{
		DailyLimit:    flagRestrictDaily,
		MonthlyCap:    flagRestrictMonthly,
		WarnAtPercent: flagRestrictWarnAt,
	}
	if flagRestrictClear {
		r = model.BudgetRestrictions{}
	} else if len(flagRestrictCategory) > 0 {
		r.CategoryLimits = make(map[string]float64, len(flagRestrictCategory))
		for _, spec := range flagRestrictCategory {
			id, amount, err := parseCategoryLimit(spec)
			if err != nil {
				return err
			}
			r.CategoryLimits[id] = amount
		}
	}

	eng.SetRestrictions(r)
	if err := saveSimulation(eng, db); err != nil {
		return err
	}

	if flagRestrictClear {
		fmt.Println("  Restrictions cleared.")
		return nil
	}
	fmt.Println("  Restrictions applied. Spent counters reset.")
	printUsage(eng)
	return nil
}

func runRestrictShow(_ *cobra.Command, _ []string) error {
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	state := eng.Snapshot()
	if state.Restrictions == nil {
		fmt.Println("  No restrictions configured. Set some with `finsim restrict --daily <n> --monthly <n>`.")
		return nil
	}

	fmt.Println()
	printUsage(eng)
	fmt.Println()
	return nil
}

func parseCategoryLimit(spec string) (string, float64, error) {
	id, amountStr, ok := strings.Cut(spec, "=")
	if !ok || id == "" {
		return "", 0, fmt.Errorf("category limit %q must be id=amount", spec)
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount < 0 {
		return "", 0, fmt.Errorf("category limit %q has an invalid amount", spec)
	}
	return id, amount, nil
}
