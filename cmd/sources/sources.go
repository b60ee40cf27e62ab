// Package sources implements the command-line interface for managing
// monitored sources: listing the configured portals and adding new ones.
package sources

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/saspirant/notifier/cmd/common"
	"github.com/saspirant/notifier/internal/domain"
)

// Command creates the sources command with its subcommands.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage monitored sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(cfgFile, debug))
	cmd.AddCommand(newAddCommand(cfgFile, debug))
	return cmd
}

func newListCommand(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps(cmd.Context(), *cfgFile, *debug)
			if err != nil {
				return err
			}
			defer deps.DB.Close()

			return listSources(cmd.Context(), deps)
		},
	}
}

func listSources(ctx context.Context, deps *common.Deps) error {
	sources, err := deps.Sources.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		deps.Logger.Info("No sources configured")
		return nil
	}

	renderTable(sources)
	return nil
}

// renderTable formats and displays the sources in a table.
func renderTable(sources []*domain.Source) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"ID", "Name", "URL", "Adapter", "Category", "Interval", "Active", "Last Polled"})

	for _, source := range sources {
		lastPolled := "never"
		if source.LastPolledAt != nil {
			lastPolled = source.LastPolledAt.Format(time.RFC3339)
		}
		adapter := source.AdapterKind
		if adapter == "" {
			adapter = "auto"
		}
		t.AppendRow(table.Row{
			source.ID,
			source.Name,
			source.URL,
			adapter,
			source.Category,
			source.PollInterval().String(),
			source.Active,
			lastPolled,
		})
	}

	t.Render()
}

func newAddCommand(cfgFile *string, debug *bool) *cobra.Command {
	var (
		name     string
		url      string
		adapter  string
		category string
		interval int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new source",
		Long: `Registers a portal to poll. The adapter kind is auto-detected from the URL
when not given explicitly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps(cmd.Context(), *cfgFile, *debug)
			if err != nil {
				return err
			}
			defer deps.DB.Close()

			source := &domain.Source{
				URL:               url,
				Name:              name,
				AdapterKind:       adapter,
				Category:          category,
				PollIntervalHours: interval,
				Active:            true,
			}

			id, err := deps.Sources.Create(cmd.Context(), source)
			if err != nil {
				return fmt.Errorf("failed to create source: %w", err)
			}

			deps.Logger.Info("Source created", "id", id, "name", name, "url", url)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name of the source")
	cmd.Flags().StringVar(&url, "url", "", "portal URL to poll")
	cmd.Flags().StringVar(&adapter, "adapter", "", "adapter kind (upsc, ssc, state_psc, university, generic)")
	cmd.Flags().StringVar(&category, "category", "", "notification category for this portal")
	cmd.Flags().IntVar(&interval, "interval", domain.DefaultPollIntervalHours, "poll interval in hours")

	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
