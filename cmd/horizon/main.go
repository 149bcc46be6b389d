package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/horizon/internal/app"
	"github.com/MrSnakeDoc/horizon/internal/config"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "horizon",
	Short: "Competitive programming contest aggregator",
	Long: `Horizon collects contests from Codeforces, LeetCode and CodeChef into one
normalized list, with bookmarks and solution links.

Running horizon without a subcommand starts the HTTP service.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service and background refreshers",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, versionCmd, contestsCmd, bookmarksCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ horizon: %v\n", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = loggerClient.Sync() }()

	a, err := app.New(cmd.Context(), cfg, loggerClient)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	return a.Run(cmd.Context())
}

// cliLogger keeps one-shot commands quiet unless debugging is asked for.
func cliLogger(cfg *config.Config) logger.Logger {
	level := "warn"
	if cfg.LogLevel == "debug" {
		level = "debug"
	}
	return logger.New(level, true)
}
