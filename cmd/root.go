// Package cmd implements the command-line interface for the notifier service.
// It provides the root command and subcommands for running the service and
// managing notification sources.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/saspirant/notifier/cmd/scrape"
	"github.com/saspirant/notifier/cmd/serve"
	cmdsources "github.com/saspirant/notifier/cmd/sources"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the notifier CLI.
	rootCmd = &cobra.Command{
		Use:   "notifier",
		Short: "Exam and job notification alert engine",
		Long: `Polls government exam and recruitment portals, extracts new notifications,
matches them against subscriber preferences, and sends email alerts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are visible to Viper.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("notifier version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(serve.Command(&cfgFile, &debug))
	rootCmd.AddCommand(scrape.Command(&cfgFile, &debug))
	rootCmd.AddCommand(cmdsources.Command(&cfgFile, &debug))
}
