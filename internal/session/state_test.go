package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStateStore(t *testing.T) *StateStore {
	t.Helper()
	s, err := NewStateStoreAt(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestStateStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestStateStore(t)

	require.NoError(t, s.Save("session-1"))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "session-1", got)
}

func TestStateStore_LoadWithoutState(t *testing.T) {
	s := newTestStateStore(t)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got, "missing state file means no active session")
}

func TestStateStore_SaveOverwrites(t *testing.T) {
	s := newTestStateStore(t)

	require.NoError(t, s.Save("first"))
	require.NoError(t, s.Save("second"))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestStateStore_SaveRejectsEmpty(t *testing.T) {
	s := newTestStateStore(t)

	assert.Error(t, s.Save(""))
}

func TestStateStore_Clear(t *testing.T) {
	s := newTestStateStore(t)

	require.NoError(t, s.Save("doomed"))
	require.NoError(t, s.Clear())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)

	// Clearing again is a no-op.
	require.NoError(t, s.Clear())
}

func TestStateStore_LoadTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStateStoreAt(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, stateFileName), []byte("abc\n"), 0o644))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestNewStateStoreAt_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")

	_, err := NewStateStoreAt(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
