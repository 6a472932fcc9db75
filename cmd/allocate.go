package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"finsim/internal/cli"
	"finsim/internal/engine"
	"finsim/internal/store"

	"github.com/spf13/cobra"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate [category] [percent]",
	Short: "Set a category's budget allocation (percent of income)",
	Long:  "With no arguments, lists current allocations. With a category id and a percent, updates that category's share of income.",
	Args:  cobra.RangeArgs(0, 2),
	RunE:  runAllocate,
}

func init() {
	rootCmd.AddCommand(allocateCmd)
}

func runAllocate(_ *cobra.Command, args []string) error {
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if len(args) == 0 {
		return showAllocations(eng, db)
	}
	if len(args) != 2 {
		return errors.New("usage: finsim allocate <category> <percent>")
	}

	categoryID := args[0]
	percent, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parsing percent %q: %w", args[1], err)
	}

	if err := eng.UpdateAllocation(categoryID, percent); err != nil {
		switch {
		case errors.Is(err, engine.ErrUnknownCategory):
			return fmt.Errorf("unknown category %q — see `finsim allocate` for the list", categoryID)
		case errors.Is(err, engine.ErrInvalidPercent):
			return fmt.Errorf("percent must be between 0 and 100, got %v", percent)
		default:
			return err
		}
	}

	// Allocation changes go through the debounced writer so rapid edits
	// coalesce; a single CLI invocation just flushes on close.
	state := eng.Snapshot()
	syncer := store.NewAllocationSyncer(db, 0)
	syncer.Queue(state.Month, categoryID, percent)
	if err := syncer.Close(); err != nil {
		fmt.Printf("  Warning: allocation recorded in memory but not fully saved: %v\n", err)
	}

	if err := saveSimulation(eng, db); err != nil {
		return err
	}

	total := eng.TotalAllocated()
	fmt.Printf("  %s -> %s (total %s", categoryID, cli.FormatPercent(percent), cli.FormatPercent(total))
	if total > 100 {
		fmt.Print(", over budget")
	}
	fmt.Println(")")
	return nil
}

func showAllocations(eng *engine.Engine, db *store.Store) error {
	state := eng.Snapshot()

	rows := make([][]string, 0, len(state.Categories))
	for _, c := range state.Categories {
		rows = append(rows, []string{
			c.ID,
			c.Icon + " " + c.Name,
			cli.RenderAllocationBar(c.Allocated, c.Recommended.Min, c.Recommended.Max, 16),
			cli.FormatBand(c.Recommended.Min, c.Recommended.Max),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Budget Allocations",
		Headers: []string{"ID", "Category", "Allocated", "Recommended"},
		Rows:    rows,
	}))
	fmt.Printf("  Total: %s allocated, %s remaining\n",
		cli.FormatPercent(eng.TotalAllocated()),
		cli.FormatPercent(eng.RemainingBudget()),
	)

	unsynced, err := db.UnsyncedAllocations()
	if err == nil && len(unsynced) > 0 {
		fmt.Printf("  Warning: %d allocation change(s) pending save\n", len(unsynced))
	}
	fmt.Println()
	return nil
}
