// Package cmd implements the idiary command line interface.
package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soorajkrishnan/idiary/internal/log"
)

var (
	flagLogLevel string
	flagLogJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "idiary",
	Short: "A conversational assistant with durable multi-session memory",
	Long: `idiary keeps every conversation in a PostgreSQL-backed message log.
Sessions survive restarts, can be listed, resumed, summarized and deleted,
and the assistant always answers with the full session history in view.

Run "idiary ask" for a single exchange, or "idiary serve" to expose the
JSON API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"minimum log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false,
		"emit logs as JSON")
}

// newLogger builds the logger from the persistent flags.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(flagLogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := log.New(log.Config{Level: level, JSON: flagLogJSON})
	slog.SetDefault(logger)
	return logger
}
