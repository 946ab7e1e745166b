// Package chat implements the conversational core: sending a turn through
// the language model with full session history, and summarizing sessions.
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
)

// Memory is the conversation memory the service reads and writes.
type Memory interface {
	History(ctx context.Context, sessionID string) ([]*ai.Message, error)
	RecordTurn(ctx context.Context, sessionID, userText, replyText string) error
}

// Service runs complete chat turns against a session.
type Service struct {
	model  Model
	memory Memory
	logger *slog.Logger
}

// NewService creates a chat Service.
func NewService(model Model, memory Memory, logger *slog.Logger) *Service {
	return &Service{model: model, memory: memory, logger: logger}
}

// Send runs one turn: load the session history, generate a reply to input,
// then persist the exchange. The reply is returned even when persistence
// fails, alongside the error, so the caller can still show it; the session
// then holds the user message without the reply.
func (s *Service) Send(ctx context.Context, sessionID, input string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id must not be empty")
	}
	if input == "" {
		return "", fmt.Errorf("input must not be empty")
	}

	history, err := s.memory.History(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	reply, err := s.model.Invoke(ctx, history, input)
	if err != nil {
		return "", err
	}

	if err := s.memory.RecordTurn(ctx, sessionID, input, reply); err != nil {
		return reply, fmt.Errorf("persisting turn: %w", err)
	}

	s.logger.Debug("turn completed", "session_id", sessionID, "history_len", len(history))
	return reply, nil
}
