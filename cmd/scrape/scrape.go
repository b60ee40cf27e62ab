// Package scrape implements the scrape command, a one-shot manual scrape of a
// single source.
package scrape

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saspirant/notifier/cmd/common"
	"github.com/saspirant/notifier/cmd/serve"
	"github.com/saspirant/notifier/internal/orchestrator"
)

// Command creates the scrape command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <source-id>",
		Short: "Run a one-shot scrape of a single source",
		Long: `Scrapes the given source once, persists new notifications, and dispatches
alerts to matching subscribers. The source is looked up by its ID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], *cfgFile, *debug)
		},
	}
}

func run(cmd *cobra.Command, sourceID, cfgFile string, debug bool) error {
	ctx := cmd.Context()

	deps, err := common.NewDeps(ctx, cfgFile, debug)
	if err != nil {
		return err
	}
	defer deps.DB.Close()

	engine, deliverer, cleanup := serve.BuildPipeline(ctx, deps.Config, deps.Logger)
	defer cleanup()

	orch := orchestrator.New(deps.Stores, engine, deliverer, deps.Logger, deps.Config.Scheduler.RetryDelay)
	defer orch.Stop()

	result := orch.RunManualScrape(ctx, sourceID)

	fmt.Fprintf(cmd.OutOrStdout(),
		"success: %t\nnotifications found: %d\nnew saved: %d\nalerts sent: %d\nmessage: %s\n",
		result.Success,
		result.NotificationsFound,
		result.NewSaved,
		result.AlertsSent,
		result.Message,
	)

	if !result.Success {
		return fmt.Errorf("scrape failed: %s", result.Message)
	}
	return nil
}
