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
	flagCategoryIcon  string
	flagCategoryColor string
	flagCategoryMin   float64
	flagCategoryMax   float64
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage the budget category catalog",
	Long:  "Lists, adds, renames, and toggles spending categories. A customized catalog survives month end; only the allocations reset.",
	RunE:  runCategoryList,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add [id] [name]",
	Short: "Add a custom category",
	Args:  cobra.ExactArgs(2),
	RunE:  runCategoryAdd,
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename [id] [name]",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE:  runCategoryRename,
}

var categoryToggleCmd = &cobra.Command{
	Use:   "toggle [id]",
	Short: "Activate or deactivate a category",
	Long:  "Deactivating a category zeroes its allocation and excludes it from the budget total until reactivated.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryToggle,
}

func init() {
	categoryAddCmd.Flags().StringVar(&flagCategoryIcon, "icon", "📦", "Icon shown next to the category")
	categoryAddCmd.Flags().StringVar(&flagCategoryColor, "color", "", "Accent color as a hex value")
	categoryAddCmd.Flags().Float64Var(&flagCategoryMin, "min", 0, "Recommended minimum percent of income")
	categoryAddCmd.Flags().Float64Var(&flagCategoryMax, "max", 0, "Recommended maximum percent of income")

	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryRenameCmd)
	categoryCmd.AddCommand(categoryToggleCmd)
	rootCmd.AddCommand(categoryCmd)
}

func runCategoryList(_ *cobra.Command, _ []string) error {
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	state := eng.Snapshot()
	rows := make([][]string, 0, len(state.Categories))
	for _, c := range state.Categories {
		status := "active"
		if c.Disabled {
			status = "off"
		}
		rows = append(rows, []string{
			c.ID,
			c.Icon + " " + c.Name,
			status,
			cli.FormatBand(c.Recommended.Min, c.Recommended.Max),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Categories",
		Headers: []string{"ID", "Category", "Status", "Recommended"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runCategoryAdd(_ *cobra.Command, args []string) error {
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	id, name := args[0], args[1]
	err = eng.AddCategory(model.BudgetCategory{
		ID:          id,
		Name:        name,
		Icon:        flagCategoryIcon,
		Color:       flagCategoryColor,
		Recommended: model.PercentBand{Min: flagCategoryMin, Max: flagCategoryMax},
	})
	switch {
	case errors.Is(err, engine.ErrDuplicateCategory):
		return fmt.Errorf("category %q already exists — pick another id", id)
	case errors.Is(err, engine.ErrBlankCategory):
		return errors.New("category id and name must be non-empty")
	case err != nil:
		return err
	}

	if err := saveSimulation(eng, db); err != nil {
		return err
	}
	fmt.Printf("  Added %s (%s). Allocate with `finsim allocate %s <percent>`.\n", name, id, id)
	return nil
}

func runCategoryRename(_ *cobra.Command, args []string) error {
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	id, name := args[0], args[1]
	if err := eng.RenameCategory(id, name); err != nil {
		if errors.Is(err, engine.ErrUnknownCategory) {
			return fmt.Errorf("unknown category %q — see `finsim category` for the list", id)
		}
		return err
	}

	if err := saveSimulation(eng, db); err != nil {
		return err
	}
	fmt.Printf("  %s -> %s\n", id, name)
	return nil
}

func runCategoryToggle(_ *cobra.Command, args []string) error {
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	id := args[0]
	active, err := eng.ToggleCategory(id)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownCategory) {
			return fmt.Errorf("unknown category %q — see `finsim category` for the list", id)
		}
		return err
	}

	if err := saveSimulation(eng, db); err != nil {
		return err
	}
	if active {
		fmt.Printf("  %s is active again.\n", id)
	} else {
		fmt.Printf("  %s deactivated. Its allocation was cleared.\n", id)
	}
	return nil
}
