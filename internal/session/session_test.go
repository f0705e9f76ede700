package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "abc", time.Hour))
	live, err := store.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, live)

	require.NoError(t, store.Revoke(ctx, "abc"))
	live, err = store.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, live)

	assert.NoError(t, store.Revoke(ctx, "abc"))
	assert.NoError(t, store.Revoke(ctx, "never-existed"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "short", -time.Second))
	live, err := store.Exists(ctx, "short")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "expired-1", -time.Minute))
	require.NoError(t, store.Put(ctx, "expired-2", -time.Minute))
	require.NoError(t, store.Put(ctx, "live", time.Hour))

	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 0, store.Sweep())

	live, err := store.Exists(ctx, "live")
	require.NoError(t, err)
	assert.True(t, live)
}
