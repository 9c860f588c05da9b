package cached_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jdchain-core/mst/kv/cached"
	"github.com/jdchain-core/mst/kv/memory"
)

func TestCachedGetServesFromCacheAfterFirstRead(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	store, err := cached.New(inner, cached.WithSize(4))
	require.NoError(t, err)

	_, err = store.PutIfAbsent(ctx, []byte("k"), []byte("v"))
	require.NoError(t, err)

	got, err := store.Get(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	// With the inner store closed, the second read can only succeed if
	// it is served from the cache.
	require.NoError(t, inner.Close())

	got, err = store.Get(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}

func TestCachedGetMissPassesThrough(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	store, err := cached.New(inner)
	require.NoError(t, err)

	got, err := store.Get(ctx, []byte("missing"))
	require.NoError(t, err)
	require.Nil(t, got)
}
