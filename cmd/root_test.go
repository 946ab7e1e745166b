package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"ask", "serve", "sessions", "version"} {
		assert.Truef(t, names[want], "command %q not registered", want)
	}
}

func TestSessionsSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range sessionsCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"list", "delete", "summarize", "use"} {
		assert.Truef(t, names[want], "sessions subcommand %q not registered", want)
	}
}

func TestNewLogger_LevelParsing(t *testing.T) {
	orig := flagLogLevel
	t.Cleanup(func() { flagLogLevel = orig })

	flagLogLevel = "debug"
	logger := newLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	flagLogLevel = "error"
	logger = newLogger()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
}
