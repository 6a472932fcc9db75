package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the simulation back to its starting state",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	if !flagResetYes {
		fmt.Print("  This erases all progress and history. Continue? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("  Aborted.")
			return nil
		}
	}

	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	eng.Reset()
	if err := db.Reset(); err != nil {
		return fmt.Errorf("clearing saved state: %w", err)
	}

	fmt.Println("  Simulation reset. Month 1, seed balances restored.")
	return nil
}
