//go:build integration
// +build integration

package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soorajkrishnan/idiary/internal/log"
	"github.com/soorajkrishnan/idiary/internal/testutil"
)

// TestStore_AppendAndLoad_Integration tests that appended messages come back
// in insertion order with types intact.
func TestStore_AppendAndLoad_Integration(t *testing.T) {
	dbContainer, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	s := New(dbContainer.Pool, log.NewNop())
	ctx := context.Background()
	sessionID := uuid.NewString()

	require.NoError(t, s.Append(ctx, sessionID, Message{Type: TypeHuman, Content: "hi im bob"}))
	require.NoError(t, s.Append(ctx, sessionID, Message{Type: TypeAI, Content: "hello bob"}))
	require.NoError(t, s.Append(ctx, sessionID, Message{Type: TypeHuman, Content: "whats my name"}))

	msgs, err := s.Load(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, Message{Type: TypeHuman, Content: "hi im bob"}, msgs[0])
	assert.Equal(t, Message{Type: TypeAI, Content: "hello bob"}, msgs[1])
	assert.Equal(t, Message{Type: TypeHuman, Content: "whats my name"}, msgs[2])
}

// TestStore_LoadUnknownSession_Integration tests that loading a session with
// no messages returns an empty history, not an error.
func TestStore_LoadUnknownSession_Integration(t *testing.T) {
	dbContainer, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	s := New(dbContainer.Pool, log.NewNop())

	msgs, err := s.Load(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

// TestStore_Delete_Integration tests that deletion removes exactly one
// session's messages and is idempotent.
func TestStore_Delete_Integration(t *testing.T) {
	dbContainer, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	s := New(dbContainer.Pool, log.NewNop())
	ctx := context.Background()
	victim := uuid.NewString()
	survivor := uuid.NewString()

	require.NoError(t, s.Append(ctx, victim, Message{Type: TypeHuman, Content: "delete me"}))
	require.NoError(t, s.Append(ctx, victim, Message{Type: TypeAI, Content: "ok"}))
	require.NoError(t, s.Append(ctx, survivor, Message{Type: TypeHuman, Content: "keep me"}))

	require.NoError(t, s.Delete(ctx, victim))

	msgs, err := s.Load(ctx, victim)
	require.NoError(t, err)
	assert.Empty(t, msgs, "deleted session should have no messages")

	msgs, err = s.Load(ctx, survivor)
	require.NoError(t, err)
	assert.Len(t, msgs, 1, "other sessions must be untouched")

	// Deleting again is a no-op.
	require.NoError(t, s.Delete(ctx, victim))
}

// TestStore_ResurrectAfterDelete_Integration tests that appending to a
// deleted session id starts a fresh history.
func TestStore_ResurrectAfterDelete_Integration(t *testing.T) {
	dbContainer, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	s := New(dbContainer.Pool, log.NewNop())
	ctx := context.Background()
	sessionID := uuid.NewString()

	require.NoError(t, s.Append(ctx, sessionID, Message{Type: TypeHuman, Content: "first life"}))
	require.NoError(t, s.Delete(ctx, sessionID))
	require.NoError(t, s.Append(ctx, sessionID, Message{Type: TypeHuman, Content: "second life"}))

	msgs, err := s.Load(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "second life", msgs[0].Content)
}

// TestStore_DistinctSessions_Integration tests the session listing order and
// that deletion removes a session from the listing.
func TestStore_DistinctSessions_Integration(t *testing.T) {
	dbContainer, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	s := New(dbContainer.Pool, log.NewNop())
	ctx := context.Background()

	first := uuid.NewString()
	second := uuid.NewString()
	third := uuid.NewString()

	require.NoError(t, s.Append(ctx, first, Message{Type: TypeHuman, Content: "a"}))
	require.NoError(t, s.Append(ctx, second, Message{Type: TypeHuman, Content: "b"}))
	// Another message in the first session must not change its position.
	require.NoError(t, s.Append(ctx, first, Message{Type: TypeAI, Content: "c"}))
	require.NoError(t, s.Append(ctx, third, Message{Type: TypeHuman, Content: "d"}))

	ids, err := s.DistinctSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{first, second, third}, ids, "listing should follow first-message order")

	require.NoError(t, s.Delete(ctx, second))

	ids, err = s.DistinctSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{first, third}, ids)
}

// TestStore_ConcurrentAppends_Integration tests that concurrent appends to
// one session all land, with no lost writes.
func TestStore_ConcurrentAppends_Integration(t *testing.T) {
	dbContainer, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	s := New(dbContainer.Pool, log.NewNop())
	ctx := context.Background()
	sessionID := uuid.NewString()

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Append(ctx, sessionID, Message{
				Type:    TypeHuman,
				Content: fmt.Sprintf("message %d", i),
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoErrorf(t, err, "writer %d failed", i)
	}

	msgs, err := s.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, msgs, writers, "every concurrent append must be durable")
}

// TestStore_SkipsMalformedRows_Integration tests that a hand-corrupted row is
// skipped on load while valid rows still come back.
func TestStore_SkipsMalformedRows_Integration(t *testing.T) {
	dbContainer, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	s := New(dbContainer.Pool, log.NewNop())
	ctx := context.Background()
	sessionID := uuid.NewString()

	require.NoError(t, s.Append(ctx, sessionID, Message{Type: TypeHuman, Content: "good"}))

	_, err := dbContainer.Pool.Exec(ctx,
		`INSERT INTO message_store (session_id, message) VALUES ($1, $2)`,
		sessionID, `{"type":"alien","data":{"content":"bad"}}`)
	require.NoError(t, err)

	require.NoError(t, s.Append(ctx, sessionID, Message{Type: TypeAI, Content: "also good"}))

	msgs, err := s.Load(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "good", msgs[0].Content)
	assert.Equal(t, "also good", msgs[1].Content)
}

// TestStore_OnMutate_Integration tests that mutation hooks fire after commit
// for both appends and deletes.
func TestStore_OnMutate_Integration(t *testing.T) {
	dbContainer, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	s := New(dbContainer.Pool, log.NewNop())
	ctx := context.Background()
	sessionID := uuid.NewString()

	var mu sync.Mutex
	var notified []string
	s.OnMutate(func(id string) {
		mu.Lock()
		notified = append(notified, id)
		mu.Unlock()
	})

	require.NoError(t, s.Append(ctx, sessionID, Message{Type: TypeHuman, Content: "hi"}))
	require.NoError(t, s.Delete(ctx, sessionID))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{sessionID, sessionID}, notified)
}
