package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soorajkrishnan/idiary/internal/app"
	"github.com/soorajkrishnan/idiary/internal/session"
)

var flagAskSession string

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message and print the reply",
	Long: `Send a single message to the assistant and print the reply.

The exchange is appended to the active session, so consecutive asks form one
ongoing conversation. Use --session to target a specific session, or
--session new to start a fresh one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	askCmd.Flags().StringVar(&flagAskSession, "session", "",
		`session id to continue, or "new" for a fresh session`)
	rootCmd.AddCommand(askCmd)
}

func runAsk(ctx context.Context, message string) error {
	return withApp(ctx, func(ctx context.Context, a *app.App) error {
		sessionID, err := resolveAskSession(a)
		if err != nil {
			return err
		}

		reply, err := a.Chat.Send(ctx, sessionID, message)
		if err != nil {
			// A reply may still exist when only persistence failed.
			if reply != "" {
				fmt.Println(reply)
				a.Logger.Warn("reply shown but not fully persisted", "error", err)
			}
			return err
		}

		fmt.Println(reply)

		if a.State != nil {
			if err := a.State.Save(sessionID); err != nil {
				a.Logger.Warn("saving active session", "error", err)
			}
		}
		return nil
	})
}

// resolveAskSession picks the session for this exchange: the --session flag
// wins, then the locally saved active session, then a fresh one.
func resolveAskSession(a *app.App) (string, error) {
	if flagAskSession != "" {
		return a.Registry.Resolve(flagAskSession), nil
	}

	if a.State != nil {
		current, err := a.State.Load()
		if err != nil {
			return "", fmt.Errorf("reading active session: %w", err)
		}
		if current != "" {
			return current, nil
		}
	}

	return a.Registry.Resolve(session.NewChat), nil
}
