package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// NewChat is the selection sentinel that requests a fresh session. It is
// reserved: Resolve never returns it as a session id.
const NewChat = "new"

// Lister supplies the distinct session ids currently present in the message
// log, ordered by first activity.
type Lister interface {
	DistinctSessions(ctx context.Context) ([]string, error)
}

// Registry resolves session selections and produces picker listings.
//
// Listings are cached until Invalidate is called. Wiring Invalidate to the
// store's mutation hook keeps the cache fresh without the registry polling
// the database.
type Registry struct {
	lister Lister
	logger *slog.Logger

	mu     sync.Mutex
	cached []string
	valid  bool
}

// NewRegistry creates a Registry backed by lister.
func NewRegistry(lister Lister, logger *slog.Logger) *Registry {
	return &Registry{lister: lister, logger: logger}
}

// Resolve maps a user selection to a concrete session id. The NewChat
// sentinel (and the empty selection) mints a fresh UUID; anything else is
// already a session id and is returned unchanged. Resolving never touches
// the database: a minted id has no messages and therefore no session until
// the first append.
func (r *Registry) Resolve(selection string) string {
	if selection == NewChat || selection == "" {
		id := uuid.NewString()
		r.logger.Debug("minted new session id", "session_id", id)
		return id
	}
	return selection
}

// Options returns the picker listing: the NewChat sentinel first, then every
// known session id in first-activity order. When active is a freshly minted
// id that has no messages yet, it is injected after the sentinel so the
// picker can still show the session the user is in.
func (r *Registry) Options(ctx context.Context, active string) ([]string, error) {
	ids, err := r.listing(ctx)
	if err != nil {
		return nil, err
	}

	options := make([]string, 0, len(ids)+2)
	options = append(options, NewChat)
	if active != "" && active != NewChat && !slices.Contains(ids, active) {
		options = append(options, active)
	}
	options = append(options, ids...)
	return options, nil
}

// Invalidate drops the cached listing. The next Options call reloads it from
// the store.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.valid = false
	r.cached = nil
	r.mu.Unlock()
}

func (r *Registry) listing(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.valid {
		return r.cached, nil
	}

	ids, err := r.lister.DistinctSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	r.cached = ids
	r.valid = true
	return r.cached, nil
}
