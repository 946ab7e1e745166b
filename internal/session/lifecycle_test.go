package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soorajkrishnan/idiary/internal/log"
)

type fakeDeleter struct {
	deleted []string
	err     error
}

func (f *fakeDeleter) Delete(ctx context.Context, sessionID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func TestManager_DeleteSession(t *testing.T) {
	deleter := &fakeDeleter{}
	m := NewManager(deleter, nil, log.NewNop())

	require.NoError(t, m.DeleteSession(context.Background(), "victim"))
	assert.Equal(t, []string{"victim"}, deleter.deleted)
}

func TestManager_DeleteSession_RejectsEmptyAndSentinel(t *testing.T) {
	m := NewManager(&fakeDeleter{}, nil, log.NewNop())

	assert.Error(t, m.DeleteSession(context.Background(), ""))
	assert.Error(t, m.DeleteSession(context.Background(), NewChat))
}

func TestManager_DeleteSession_PropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	m := NewManager(&fakeDeleter{err: boom}, nil, log.NewNop())

	assert.ErrorIs(t, m.DeleteSession(context.Background(), "victim"), boom)
}

func TestManager_DeleteSession_ClearsActiveState(t *testing.T) {
	state := newTestStateStore(t)
	require.NoError(t, state.Save("victim"))

	m := NewManager(&fakeDeleter{}, state, log.NewNop())
	require.NoError(t, m.DeleteSession(context.Background(), "victim"))

	current, err := state.Load()
	require.NoError(t, err)
	assert.Empty(t, current, "deleting the active session must clear the pointer")
}

func TestManager_DeleteSession_LeavesOtherStateAlone(t *testing.T) {
	state := newTestStateStore(t)
	require.NoError(t, state.Save("other"))

	m := NewManager(&fakeDeleter{}, state, log.NewNop())
	require.NoError(t, m.DeleteSession(context.Background(), "victim"))

	current, err := state.Load()
	require.NoError(t, err)
	assert.Equal(t, "other", current)
}

func TestManager_DeleteSession_FailureKeepsState(t *testing.T) {
	state := newTestStateStore(t)
	require.NoError(t, state.Save("victim"))

	m := NewManager(&fakeDeleter{err: errors.New("db down")}, state, log.NewNop())
	require.Error(t, m.DeleteSession(context.Background(), "victim"))

	current, err := state.Load()
	require.NoError(t, err)
	assert.Equal(t, "victim", current, "failed delete must not clear the pointer")
}
