package cmd

import (
	"errors"
	"fmt"

	"finsim/internal/cli"
	"finsim/internal/engine"
	"finsim/internal/model"

	"github.com/spf13/cobra"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Trigger a random life event",
	Long:  "Draws a random life event. Resolve it with `finsim scenario choose <option>` before ending the month.",
	RunE:  runScenarioTrigger,
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the pending life event, if any",
	RunE:  runScenarioShow,
}

var scenarioChooseCmd = &cobra.Command{
	Use:   "choose <option>",
	Short: "Resolve the pending life event with one of its options",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioChoose,
}

func init() {
	scenarioCmd.AddCommand(scenarioShowCmd)
	scenarioCmd.AddCommand(scenarioChooseCmd)
	rootCmd.AddCommand(scenarioCmd)
}

func runScenarioTrigger(_ *cobra.Command, _ []string) error {
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if sc, ok := eng.ActiveScenario(); ok {
		fmt.Printf("  An event is already pending: %s\n", sc.Title)
		fmt.Println("  Resolve it first with `finsim scenario choose <option>`.")
		return nil
	}

	sc := eng.TriggerScenario()
	if err := saveSimulation(eng, db); err != nil {
		return err
	}

	printScenario(sc)
	return nil
}

func runScenarioShow(_ *cobra.Command, _ []string) error {
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	sc, ok := eng.ActiveScenario()
	if !ok {
		fmt.Println("  No pending event. Trigger one with `finsim scenario`.")
		return nil
	}

	printScenario(sc)
	return nil
}

func runScenarioChoose(_ *cobra.Command, args []string) error {
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	before := eng.Snapshot()

	if err := eng.ApplyChoice(args[0]); err != nil {
		switch {
		case errors.Is(err, engine.ErrNoActiveScenario):
			return errors.New("no pending event — trigger one with `finsim scenario`")
		case errors.Is(err, engine.ErrForeignOption):
			return fmt.Errorf("option %q does not belong to the pending event — see `finsim scenario show`", args[0])
		default:
			return err
		}
	}

	if err := saveSimulation(eng, db); err != nil {
		return err
	}

	after := eng.Snapshot()
	fmt.Println()
	fmt.Println("  Choice applied.")
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Impact",
		Headers: []string{"Metric", "Before", "After", "Delta"},
		Rows: [][]string{
			impactRow("Balance", before.CurrentBalance, after.CurrentBalance),
			impactRow("Savings", before.Savings, after.Savings),
			impactRow("Debt", before.Debt, after.Debt),
			impactRow("Stability", before.StabilityIndex, after.StabilityIndex),
			impactRow("Stress", before.StressLevel, after.StressLevel),
		},
	}))
	fmt.Println()
	return nil
}

func impactRow(label string, before, after float64) []string {
	return []string{
		label,
		cli.FormatAmount(before),
		cli.FormatAmount(after),
		cli.FormatSigned(after - before),
	}
}

func printScenario(sc model.Scenario) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(sc.Title))
	fmt.Println()
	fmt.Printf("  %s\n\n", sc.Description)

	rows := make([][]string, 0, len(sc.Options))
	for _, opt := range sc.Options {
		rows = append(rows, []string{opt.ID, opt.Label, opt.Description})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Options",
		Headers: []string{"ID", "Choice", "Details"},
		Rows:    rows,
	}))
	fmt.Println("  Resolve with `finsim scenario choose <id>`.")
	fmt.Println()
}
