package session

import (
	"context"
	"fmt"
	"log/slog"
)

// Deleter removes a session's messages from the log.
type Deleter interface {
	Delete(ctx context.Context, sessionID string) error
}

// Manager coordinates session deletion with local state. When the deleted
// session is the active one, the state pointer is cleared so the next
// invocation starts fresh instead of resurrecting the id.
type Manager struct {
	deleter Deleter
	state   *StateStore
	logger  *slog.Logger
}

// NewManager creates a Manager. state may be nil when no local pointer is in
// play, such as in server mode.
func NewManager(deleter Deleter, state *StateStore, logger *slog.Logger) *Manager {
	return &Manager{deleter: deleter, state: state, logger: logger}
}

// DeleteSession removes every message of sessionID. Deleting an unknown
// session succeeds; the operation is idempotent. On failure the local state
// pointer is left untouched.
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id must not be empty")
	}
	if sessionID == NewChat {
		return fmt.Errorf("cannot delete the %q sentinel", NewChat)
	}

	if err := m.deleter.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting session %s: %w", sessionID, err)
	}

	m.logger.Info("session deleted", "session_id", sessionID)

	if m.state == nil {
		return nil
	}
	current, err := m.state.Load()
	if err != nil {
		m.logger.Warn("reading active session state after delete", "error", err)
		return nil
	}
	if current == sessionID {
		if err := m.state.Clear(); err != nil {
			m.logger.Warn("clearing active session state after delete", "error", err)
		}
	}
	return nil
}
