// Package memory adapts the durable message log to the model's view of a
// conversation. It owns the mapping between stored message types and genkit
// roles and the ordering rules for recording a completed exchange.
package memory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"

	"github.com/soorajkrishnan/idiary/internal/store"
)

// MessageStore is the slice of the store the adapter needs.
type MessageStore interface {
	Append(ctx context.Context, sessionID string, msg store.Message) error
	Load(ctx context.Context, sessionID string) ([]store.Message, error)
}

// Adapter converts between stored messages and genkit chat messages.
type Adapter struct {
	store  MessageStore
	logger *slog.Logger
}

// New creates an Adapter over s.
func New(s MessageStore, logger *slog.Logger) *Adapter {
	return &Adapter{store: s, logger: logger}
}

// History loads the session's full transcript as genkit messages, oldest
// first. An unknown session yields an empty history.
func (a *Adapter) History(ctx context.Context, sessionID string) ([]*ai.Message, error) {
	msgs, err := a.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	history := make([]*ai.Message, 0, len(msgs))
	for _, msg := range msgs {
		role, ok := roleFor(msg.Type)
		if !ok {
			// Load already filters unknown types; this guards against
			// the mapping drifting out of sync with the store.
			a.logger.Warn("skipping message with unmapped type",
				"session_id", sessionID, "type", msg.Type)
			continue
		}
		history = append(history, &ai.Message{
			Role:    role,
			Content: []*ai.Part{ai.NewTextPart(msg.Content)},
		})
	}
	return history, nil
}

// RecordTurn persists a completed exchange: the user message first, then the
// assistant reply. The two appends are separate transactions; if the second
// fails the user message stays, and the error reports exactly that so the
// caller knows the log holds a partial turn.
func (a *Adapter) RecordTurn(ctx context.Context, sessionID, userText, replyText string) error {
	if err := a.store.Append(ctx, sessionID, store.Message{
		Type:    store.TypeHuman,
		Content: userText,
	}); err != nil {
		return fmt.Errorf("recording user message: %w", err)
	}

	if err := a.store.Append(ctx, sessionID, store.Message{
		Type:    store.TypeAI,
		Content: replyText,
	}); err != nil {
		a.logger.Error("assistant reply not persisted, session holds a partial turn",
			"session_id", sessionID, "error", err)
		return fmt.Errorf("recording assistant reply after user message was stored: %w", err)
	}
	return nil
}

func roleFor(msgType string) (ai.Role, bool) {
	switch msgType {
	case store.TypeHuman:
		return ai.RoleUser, true
	case store.TypeAI:
		return ai.RoleModel, true
	case store.TypeSystem:
		return ai.RoleSystem, true
	default:
		return "", false
	}
}
