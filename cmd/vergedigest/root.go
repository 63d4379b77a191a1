package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"VergeDigest/internal/app"
	"VergeDigest/internal/config"
	"VergeDigest/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "vergedigest",
	Short:         "Summarize the latest Verge headlines",
	Long:          "vergedigest lists top headlines from The Verge via newsapi.org and summarizes articles on demand with an LLM.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file (overrides VERGE_DIGEST_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(headlinesCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vergedigest %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func loadConfig() (config.Config, *slog.Logger) {
	if flagConfig != "" {
		_ = os.Setenv("VERGE_DIGEST_CONFIG", flagConfig)
	}
	cfg := config.Load()
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	return cfg, logging.New(cfg.Logging.Level)
}

func newApplication() (*app.Application, error) {
	cfg, logger := loadConfig()
	return app.New(cfg, logger)
}
