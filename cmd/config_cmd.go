package cmd

import (
	"fmt"

	"finsim/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Language:       %s\n", language(cfg))
	if cfg.General.CurrencyLabel != "" {
		fmt.Printf("    Currency label: %s\n", cfg.General.CurrencyLabel)
	}
	fmt.Printf("    Data directory: %s\n", config.DataDir(cfg))
	fmt.Printf("    State database: %s\n", dbPath(cfg))
	fmt.Println()

	fmt.Println("  [Advisor]")
	if cfg.Advisor.APIURL != "" {
		fmt.Printf("    API URL: %s\n", cfg.Advisor.APIURL)
	} else {
		fmt.Println("    API URL: not configured (offline tips)")
	}
	apiKey := config.GetAdvisorKey(cfg)
	if apiKey != "" {
		fmt.Printf("    API key: %s\n", maskAPIKey(apiKey))
	} else {
		fmt.Println("    API key: not configured")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `finsim setup` to reconfigure.")
	return nil
}
