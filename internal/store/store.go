package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
)

// DB is the subset of pgxpool.Pool the store needs. Consumer-defined so
// tests can substitute a fake and transactions stay an implementation
// detail of this package.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store is the durable, append-only message log.
//
// Store is safe for concurrent use: all state lives in PostgreSQL, and
// per-session advisory locks serialize writers on the same session id.
type Store struct {
	db     DB
	logger *slog.Logger

	mu    sync.RWMutex
	hooks []func(sessionID string)
}

// New creates a Store backed by db. A nil logger falls back to
// slog.Default().
func New(db DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// OnMutate registers a hook invoked after every committed Append or Delete,
// with the affected session id. Hooks keep derived caches honest without
// call-site discipline; they must be fast and must not call back into the
// store.
func (s *Store) OnMutate(hook func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// notifyMutate runs the registered mutation hooks.
func (s *Store) notifyMutate(sessionID string) {
	s.mu.RLock()
	hooks := s.hooks
	s.mu.RUnlock()
	for _, hook := range hooks {
		hook(sessionID)
	}
}

// Append inserts msg as the newest entry for the session. Concurrent
// appends and deletes on the same session id are serialized by a
// per-session advisory lock; different sessions never block each other.
//
// The session springs into existence on the first successful append.
func (s *Store) Append(ctx context.Context, sessionID string, msg Message) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	data, err := marshalMessage(msg)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return classifyErr("beginning append", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.logger.Debug("append rollback", "error", err)
		}
	}()

	if err := lockSession(ctx, tx, sessionID); err != nil {
		return classifyErr("locking session", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO message_store (session_id, message) VALUES ($1, $2)`,
		sessionID, data,
	); err != nil {
		return classifyErr("inserting message", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyErr("committing append", err)
	}

	s.notifyMutate(sessionID)
	s.logger.Debug("appended message", "session_id", sessionID, "type", msg.Type)
	return nil
}

// Load returns all messages for the session in insertion order. Unknown or
// deleted sessions yield an empty slice. Rows whose payload cannot be
// decoded are logged and skipped; they never abort the load.
func (s *Store) Load(ctx context.Context, sessionID string) ([]Message, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, message FROM message_store WHERE session_id = $1 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, classifyErr("loading messages", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var (
			rowID int64
			data  []byte
		)
		if err := rows.Scan(&rowID, &data); err != nil {
			return nil, classifyErr("scanning message row", err)
		}

		msg, err := unmarshalMessage(data)
		if err != nil {
			s.logger.Warn("skipping malformed message",
				"session_id", sessionID,
				"row_id", rowID,
				"error", err,
			)
			continue
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyErr("reading message rows", err)
	}

	s.logger.Debug("loaded messages", "session_id", sessionID, "count", len(messages))
	return messages, nil
}

// Delete removes every message for the session as one atomic operation.
// Deleting a session that never existed, or was already deleted, succeeds
// silently.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return classifyErr("beginning delete", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.logger.Debug("delete rollback", "error", err)
		}
	}()

	if err := lockSession(ctx, tx, sessionID); err != nil {
		return classifyErr("locking session", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM message_store WHERE session_id = $1`,
		sessionID,
	)
	if err != nil {
		return classifyErr("deleting messages", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyErr("committing delete", err)
	}

	s.notifyMutate(sessionID)
	s.logger.Debug("deleted session", "session_id", sessionID, "rows", tag.RowsAffected())
	return nil
}

// DistinctSessions returns the session ids currently present in the log,
// oldest session first. The result observes every append and delete that
// committed before the call started.
func (s *Store) DistinctSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT session_id FROM message_store GROUP BY session_id ORDER BY MIN(id)`,
	)
	if err != nil {
		return nil, classifyErr("listing sessions", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, classifyErr("scanning session id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyErr("reading session ids", err)
	}

	return ids, nil
}

// lockSession serializes writers on one session id for the duration of the
// transaction. With no sessions table there is no row to SELECT ... FOR
// UPDATE, so a transaction-scoped advisory lock keyed on the id stands in.
func lockSession(ctx context.Context, tx pgx.Tx, sessionID string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, sessionID)
	return err
}
