package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soorajkrishnan/idiary/internal/app"
	"github.com/soorajkrishnan/idiary/internal/chat"
	"github.com/soorajkrishnan/idiary/internal/config"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage conversation sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			var active string
			if a.State != nil {
				active, _ = a.State.Load()
			}

			options, err := a.Registry.Options(ctx, active)
			if err != nil {
				return err
			}

			// First entry is always the new-chat sentinel.
			ids := options[1:]
			if len(ids) == 0 {
				fmt.Println("no sessions")
				return nil
			}
			for _, id := range ids {
				marker := "  "
				if id == active {
					marker = "* "
				}
				fmt.Printf("%s%s\n", marker, id)
			}
			return nil
		})
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and all its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			if err := a.Manager.DeleteSession(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		})
	},
}

var sessionsSummaryCmd = &cobra.Command{
	Use:   "summarize <session-id>",
	Short: "Print a short summary of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			summary, err := a.Summarizer.Summarize(ctx, args[0])
			if errors.Is(err, chat.ErrNothingToSummarize) {
				fmt.Println("session is empty, nothing to summarize")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println(summary)
			return nil
		})
	},
}

var sessionsUseCmd = &cobra.Command{
	Use:   "use <session-id>",
	Short: "Make a session the active one for future asks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			if a.State == nil {
				return errors.New("local session state is unavailable")
			}
			if err := a.State.Save(args[0]); err != nil {
				return err
			}
			fmt.Printf("active session is now %s\n", args[0])
			return nil
		})
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsSummaryCmd)
	sessionsCmd.AddCommand(sessionsUseCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// withApp loads config, initializes the application, runs fn, and tears
// everything down.
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	return fn(ctx, a)
}
