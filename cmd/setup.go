package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"finsim/internal/config"
	"finsim/internal/model"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to finsim!")
	fmt.Println()

	// 1. Language
	fmt.Println("  1. Language")
	fmt.Println("     (1) English [default]")
	fmt.Println("     (2) Русский")
	fmt.Println("     (3) O'zbekcha")
	fmt.Print("     > ")
	langChoice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(langChoice) {
	case "2":
		cfg.General.Language = "ru"
	case "3":
		cfg.General.Language = "uz"
	default:
		cfg.General.Language = "en"
	}
	fmt.Println()

	// 2. Monthly income
	fmt.Println("  2. Monthly income (virtual money, any number works)")
	fmt.Print("     > ")
	income := readAmount(reader, 500_000)
	fmt.Println()

	// 3. Existing savings
	fmt.Println("  3. Existing savings [0]")
	fmt.Print("     > ")
	savings := readAmount(reader, 0)
	fmt.Println()

	// 4. Outstanding debt
	fmt.Println("  4. Outstanding debt [0]")
	fmt.Print("     > ")
	debt := readAmount(reader, 0)
	fmt.Println()

	// 5. Advisor endpoint
	fmt.Println("  5. Advisor API URL (leave empty for offline tips)")
	existing := cfg.Advisor.APIURL
	if existing != "" {
		fmt.Printf("     Current: %s\n", existing)
	}
	fmt.Print("     > ")
	apiURL, _ := reader.ReadString('\n')
	apiURL = strings.TrimSpace(apiURL)
	if apiURL != "" {
		cfg.Advisor.APIURL = apiURL

		fmt.Println("     API key (optional)")
		key := config.GetAdvisorKey(cfg)
		if key != "" {
			fmt.Printf("     Current: %s\n", maskAPIKey(key))
		}
		fmt.Print("     > ")
		apiKey, _ := reader.ReadString('\n')
		apiKey = strings.TrimSpace(apiKey)
		if apiKey != "" {
			cfg.Advisor.APIKey = apiKey
		}
	}
	fmt.Println()

	// 6. Theme
	fmt.Println("  6. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Tokyo Night")
	fmt.Println("     (4) Terminal (ANSI 16)")
	fmt.Print("     > ")
	themeChoice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(themeChoice) {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "tokyo-night"
	case "4":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	// Save config
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	// Seed the simulation with the profile
	eng, db, _, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	profile := model.FinancialProfile{
		MonthlyIncome:   income,
		ExistingSavings: savings,
		TotalDebt:       debt,
	}
	if err := eng.SetFinancialProfile(profile); err != nil {
		return fmt.Errorf("applying profile: %w", err)
	}
	if err := saveSimulation(eng, db); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `finsim` to see your dashboard, `finsim tui` for the full experience.")
	fmt.Println()

	return nil
}

// readAmount parses a money input line, falling back to def on empty or
// malformed input.
func readAmount(reader *bufio.Reader, def float64) float64 {
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ReplaceAll(line, ",", ""))
	if line == "" {
		return def
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
