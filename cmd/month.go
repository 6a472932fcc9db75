package cmd

import (
	"fmt"

	"finsim/internal/cli"

	"github.com/spf13/cobra"
)

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Month transitions and history",
}

var monthEndCmd = &cobra.Command{
	Use:   "end",
	Short: "Close out the current month and start the next",
	RunE:  runMonthEnd,
}

var monthHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show month-by-month results",
	RunE:  runMonthHistory,
}

func init() {
	monthCmd.AddCommand(monthEndCmd)
	monthCmd.AddCommand(monthHistoryCmd)
	rootCmd.AddCommand(monthCmd)
}

func runMonthEnd(_ *cobra.Command, _ []string) error {
	eng, db, cfg, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if sc, ok := eng.ActiveScenario(); ok {
		fmt.Printf("  Unresolved event: %s\n", sc.Title)
		fmt.Println("  Resolve it with `finsim scenario choose <option>` before ending the month.")
		return nil
	}

	result := eng.EndMonth()
	if err := db.SaveResult(result); err != nil {
		return fmt.Errorf("saving month result: %w", err)
	}
	if err := saveSimulation(eng, db); err != nil {
		return err
	}

	currency := cfg.General.CurrencyLabel
	state := eng.Snapshot()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MONTH %d CLOSED", result.Month)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Result",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Remaining balance", cli.FormatMoney(result.RemainingBalance, currency)},
			{"Total savings", cli.FormatMoney(result.TotalSavings, currency)},
			{"Total debt", cli.FormatMoney(result.TotalDebt, currency)},
			{"Stability", cli.FormatIndex(result.StabilityIndex)},
			{"Stress", cli.FormatIndex(result.StressLevel)},
		},
	}))
	fmt.Printf("  Month %d begins with a fresh balance of %s.\n",
		state.Month, cli.FormatMoney(state.CurrentBalance, currency))
	fmt.Println()
	return nil
}

func runMonthHistory(_ *cobra.Command, _ []string) error {
	eng, db, cfg, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	history := eng.History()
	if len(history) == 0 {
		fmt.Println("  No completed months yet. Close one with `finsim month end`.")
		return nil
	}

	currency := cfg.General.CurrencyLabel

	rows := make([][]string, 0, len(history))
	balances := make([]float64, 0, len(history))
	savings := make([]float64, 0, len(history))
	for _, r := range history {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Month),
			cli.FormatMoney(r.RemainingBalance, currency),
			cli.FormatMoney(r.TotalSavings, currency),
			cli.FormatMoney(r.TotalDebt, currency),
			cli.FormatIndex(r.StabilityIndex),
			cli.FormatIndex(r.StressLevel),
		})
		balances = append(balances, r.RemainingBalance)
		savings = append(savings, r.TotalSavings)
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Monthly History",
		Headers: []string{"Month", "Balance", "Savings", "Debt", "Stability", "Stress"},
		Rows:    rows,
	}))
	fmt.Printf("  Balance trend: %s\n", cli.RenderSparkline(balances))
	fmt.Printf("  Savings trend: %s\n", cli.RenderSparkline(savings))
	fmt.Println()
	return nil
}
