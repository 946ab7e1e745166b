package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soorajkrishnan/idiary/internal/log"
)

type fakeLister struct {
	ids   []string
	err   error
	calls int
}

func (f *fakeLister) DistinctSessions(ctx context.Context) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

func TestRegistry_Resolve_MintsForSentinel(t *testing.T) {
	r := NewRegistry(&fakeLister{}, log.NewNop())

	id := r.Resolve(NewChat)
	_, err := uuid.Parse(id)
	require.NoError(t, err, "sentinel must resolve to a valid UUID")
	assert.NotEqual(t, NewChat, id)

	other := r.Resolve(NewChat)
	assert.NotEqual(t, id, other, "each resolution mints a distinct id")
}

func TestRegistry_Resolve_MintsForEmptySelection(t *testing.T) {
	r := NewRegistry(&fakeLister{}, log.NewNop())

	_, err := uuid.Parse(r.Resolve(""))
	assert.NoError(t, err)
}

func TestRegistry_Resolve_EchoesExistingID(t *testing.T) {
	r := NewRegistry(&fakeLister{}, log.NewNop())

	assert.Equal(t, "session-42", r.Resolve("session-42"))
}

func TestRegistry_Options_SentinelFirst(t *testing.T) {
	lister := &fakeLister{ids: []string{"a", "b", "c"}}
	r := NewRegistry(lister, log.NewNop())

	options, err := r.Options(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, []string{NewChat, "a", "b", "c"}, options)
}

func TestRegistry_Options_InjectsUnlistedActive(t *testing.T) {
	lister := &fakeLister{ids: []string{"a", "b"}}
	r := NewRegistry(lister, log.NewNop())

	// A freshly minted session has no messages yet, so the store does not
	// list it. The picker must still show it.
	options, err := r.Options(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, []string{NewChat, "fresh", "a", "b"}, options)
}

func TestRegistry_Options_NoActive(t *testing.T) {
	lister := &fakeLister{ids: []string{"a"}}
	r := NewRegistry(lister, log.NewNop())

	options, err := r.Options(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{NewChat, "a"}, options)
}

func TestRegistry_Options_CachesUntilInvalidated(t *testing.T) {
	lister := &fakeLister{ids: []string{"a"}}
	r := NewRegistry(lister, log.NewNop())
	ctx := context.Background()

	_, err := r.Options(ctx, "")
	require.NoError(t, err)
	_, err = r.Options(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, lister.calls, "second call should hit the cache")

	lister.ids = []string{"a", "b"}
	r.Invalidate()

	options, err := r.Options(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
	assert.Equal(t, []string{NewChat, "a", "b"}, options)
}

func TestRegistry_Options_ListerError(t *testing.T) {
	boom := errors.New("db down")
	r := NewRegistry(&fakeLister{err: boom}, log.NewNop())

	_, err := r.Options(context.Background(), "")
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_Options_ErrorNotCached(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	r := NewRegistry(lister, log.NewNop())
	ctx := context.Background()

	_, err := r.Options(ctx, "")
	require.Error(t, err)

	lister.err = nil
	lister.ids = []string{"a"}

	options, err := r.Options(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{NewChat, "a"}, options)
}
