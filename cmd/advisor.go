package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"finsim/internal/advisor"
	"finsim/internal/config"
	"finsim/internal/i18n"
	"finsim/internal/model"

	"github.com/spf13/cobra"
)

var advisorCmd = &cobra.Command{
	Use:   "advisor <message...>",
	Short: "Ask the financial advisor",
	Long:  "Sends your question, with a redacted snapshot of the simulation, to the configured advisor endpoint. Falls back to offline tips when no endpoint is configured.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdvisor,
}

func init() {
	rootCmd.AddCommand(advisorCmd)
}

func runAdvisor(_ *cobra.Command, args []string) error {
	eng, db, cfg, err := loadSimulation()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		return errors.New("empty message")
	}

	lang := language(cfg)
	state := model.AdvisorStateFrom(eng.Snapshot())

	var responder advisor.Responder = advisor.NewLocal()
	if remote := advisor.NewRemote(cfg.Advisor.APIURL, config.GetAdvisorKey(cfg)); remote != nil {
		responder = remote
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Asking %s...\n", cfg.Advisor.APIURL)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	frags, err := responder.Respond(ctx, advisor.Request{
		Message:  message,
		Language: lang,
		State:    state,
	})
	if err != nil {
		// Upstream failures become a localized apology, never a hard error.
		fmt.Println()
		fmt.Printf("  %s\n\n", i18n.Apology(lang, err.Error()))
		return nil
	}

	fmt.Println()
	fmt.Print("  ")
	streamed := false
	for frag := range frags {
		if frag.Err != nil {
			if streamed {
				fmt.Println()
			}
			fmt.Printf("  %s\n\n", i18n.Apology(lang, frag.Err.Error()))
			return nil
		}
		// Indent continuation lines to match the CLI margin.
		fmt.Print(strings.ReplaceAll(frag.Text, "\n", "\n  "))
		streamed = true
	}
	fmt.Println()
	fmt.Println()
	return nil
}
