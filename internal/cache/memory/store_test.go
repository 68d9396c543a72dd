package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreTTLBoundary(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store := NewStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", []string{"practice sql"}, 24*time.Hour))

	now = base.Add(23*time.Hour + 59*time.Minute)
	got, ok, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"practice sql"}, got)

	now = base.Add(24*time.Hour + time.Minute)
	_, ok, err = store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreReadDoesNotConsume(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", []string{"a", "b"}, time.Hour))

	for i := 0; i < 3; i++ {
		got, ok, err := store.Get(ctx, "sess-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, got)
	}
}

func TestStoreSetRenewsTTL(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store := NewStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", []string{"old"}, time.Hour))

	now = base.Add(50 * time.Minute)
	require.NoError(t, store.Set(ctx, "sess-1", []string{"new"}, time.Hour))

	now = base.Add(100 * time.Minute)
	got, ok, _ := store.Get(ctx, "sess-1")
	require.True(t, ok)
	assert.Equal(t, []string{"new"}, got)
}

func TestStoreInvalidate(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", []string{"x"}, time.Hour))
	require.NoError(t, store.Invalidate(ctx, "sess-1"))

	_, ok, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreIgnoresEmptyWrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", nil, time.Hour))
	_, ok, _ := store.Get(ctx, "sess-1")
	assert.False(t, ok)
}

func TestStoreCopiesSlices(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	input := []string{"original"}
	require.NoError(t, store.Set(ctx, "sess-1", input, time.Hour))
	input[0] = "mutated"

	got, ok, _ := store.Get(ctx, "sess-1")
	require.True(t, ok)
	assert.Equal(t, "original", got[0])
}
