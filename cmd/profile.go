package cmd

import (
	"errors"
	"fmt"

	"finsim/internal/cli"
	"finsim/internal/engine"
	"finsim/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagProfileIncome  float64
	flagProfileSavings float64
	flagProfileDebt    float64
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the financial profile seeding the simulation",
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the financial profile (resets income-derived state)",
	RunE:  runProfileSet,
}

func init() {
	profileSetCmd.Flags().Float64Var(&flagProfileIncome, "income", 0, "Monthly income (required)")
	profileSetCmd.Flags().Float64Var(&flagProfileSavings, "savings", 0, "Existing savings")
	profileSetCmd.Flags().Float64Var(&flagProfileDebt, "debt", 0, "Outstanding debt")
	_ = profileSetCmd.MarkFlagRequired("income")

	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(_ *cobra.Command, _ []string) error {
	eng, db, cfg, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	state := eng.Snapshot()
	currency := cfg.General.CurrencyLabel

	if state.Profile == nil {
		fmt.Println()
		fmt.Println("  No profile set. The simulation runs on seed defaults.")
		fmt.Println("  Use `finsim setup` or `finsim profile set --income <amount>`.")
		fmt.Println()
		return nil
	}

	p := state.Profile
	rows := [][]string{
		{"Monthly income", cli.FormatMoney(p.MonthlyIncome, currency)},
		{"Existing savings", cli.FormatMoney(p.ExistingSavings, currency)},
		{"Outstanding debt", cli.FormatMoney(p.TotalDebt, currency)},
	}
	for _, e := range p.RecurringExpenses {
		rows = append(rows, []string{"Recurring: " + e.Name, cli.FormatMoney(e.Amount, currency)})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Financial Profile",
		Headers: []string{"Field", "Value"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runProfileSet(_ *cobra.Command, _ []string) error {
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	profile := model.FinancialProfile{
		MonthlyIncome:   flagProfileIncome,
		ExistingSavings: flagProfileSavings,
		TotalDebt:       flagProfileDebt,
	}
	if err := eng.SetFinancialProfile(profile); err != nil {
		if errors.Is(err, engine.ErrInvalidIncome) {
			return fmt.Errorf("income must be a positive finite number, got %v", flagProfileIncome)
		}
		return err
	}

	if err := saveSimulation(eng, db); err != nil {
		return err
	}

	fmt.Printf("  Profile applied: income %s, savings %s, debt %s\n",
		cli.FormatAmount(flagProfileIncome),
		cli.FormatAmount(flagProfileSavings),
		cli.FormatAmount(flagProfileDebt),
	)
	return nil
}
