// Package cmd implements the finsim CLI commands.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"finsim/internal/cli"
	"finsim/internal/config"
	"finsim/internal/engine"
	"finsim/internal/i18n"
	"finsim/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDBPath string
	flagLang   string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "finsim",
	Short: "Personal finance budget simulator",
	Long:  "Practice budgeting with virtual money: allocate income, weather life events, and track your stability month over month.",
	RunE:  runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "State database path (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVarP(&flagLang, "lang", "l", "", "Language override (en, ru, uz)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// dbPath resolves the state database location from the flag or config.
func dbPath(cfg config.Config) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return filepath.Join(config.DataDir(cfg), "state.db")
}

// language resolves the session language from the flag or config.
func language(cfg config.Config) i18n.Language {
	if flagLang != "" {
		return i18n.Normalize(flagLang)
	}
	return i18n.Normalize(cfg.General.Language)
}

// loadSimulation opens the store and restores the engine from persisted
// state. A fresh engine is returned when nothing has been saved yet.
func loadSimulation() (*engine.Engine, *store.Store, config.Config, error) {
	cfg, _ := config.Load()

	db, err := store.Open(dbPath(cfg))
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("opening state db: %w", err)
	}

	eng := engine.New()
	state, ok, err := db.LoadState()
	if err != nil {
		_ = db.Close()
		return nil, nil, cfg, fmt.Errorf("loading state: %w", err)
	}
	if ok {
		history, err := db.LoadHistory()
		if err != nil {
			_ = db.Close()
			return nil, nil, cfg, fmt.Errorf("loading history: %w", err)
		}
		eng.Restore(state, history)
	}

	return eng, db, cfg, nil
}

// saveSimulation persists the engine state back to the store.
func saveSimulation(eng *engine.Engine, db *store.Store) error {
	if err := db.SaveState(eng.Snapshot()); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

func runStatus(_ *cobra.Command, _ []string) error {
	eng, db, cfg, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	state := eng.Snapshot()
	currency := cfg.General.CurrencyLabel

	fmt.Println()
	fmt.Println(cli.RenderTitle("FINSIM — " + cli.FormatMonth(state.Month)))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Financial State",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Income", cli.FormatMoney(state.VirtualIncome, currency)},
			{"Balance", cli.FormatMoney(state.CurrentBalance, currency)},
			{"Savings", cli.FormatMoney(state.Savings, currency)},
			{"Debt", cli.FormatMoney(state.Debt, currency)},
		},
	}))

	fmt.Printf("  Stability  %s\n", cli.RenderIndexMeter(state.StabilityIndex, false, 20))
	fmt.Printf("  Stress     %s\n", cli.RenderIndexMeter(state.StressLevel, true, 20))
	fmt.Println()

	rows := make([][]string, 0, len(state.Categories))
	for _, c := range state.Categories {
		rows = append(rows, []string{
			c.Icon + " " + c.Name,
			cli.FormatPercent(c.Allocated),
			cli.FormatBand(c.Recommended.Min, c.Recommended.Max),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Allocations",
		Headers: []string{"Category", "Allocated", "Recommended"},
		Rows:    rows,
	}))
	fmt.Printf("  Total allocated: %s (%s unallocated)\n",
		cli.FormatPercent(eng.TotalAllocated()),
		cli.FormatPercent(eng.RemainingBudget()),
	)
	fmt.Println()

	if sc, ok := eng.ActiveScenario(); ok {
		fmt.Printf("  Active event: %s — resolve with `finsim scenario choose <option>`\n", sc.Title)
		fmt.Println()
	}

	unsynced, err := db.UnsyncedAllocations()
	if err == nil && len(unsynced) > 0 {
		fmt.Printf("  Warning: %d allocation change(s) not fully saved\n", len(unsynced))
		fmt.Println()
	}

	if !config.Exists() {
		fmt.Println("  Run `finsim setup` to personalize your profile.")
		fmt.Println()
	}

	return nil
}
