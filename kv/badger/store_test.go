package badger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jdchain-core/mst/kv/badger"
	"github.com/jdchain-core/mst/utils/unittest"
)

func TestPutIfAbsentThenGet(t *testing.T) {
	unittest.RunWithBadgerStore(t, func(store *badger.Store) {
		ctx := context.Background()

		wrote, err := store.PutIfAbsent(ctx, []byte("k"), []byte("v1"))
		require.NoError(t, err)
		require.True(t, wrote)

		wrote, err = store.PutIfAbsent(ctx, []byte("k"), []byte("v1"))
		require.NoError(t, err)
		require.False(t, wrote)

		got, err := store.Get(ctx, []byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v1"), got)
	})
}

func TestGetMissingKeyReturnsNil(t *testing.T) {
	unittest.RunWithBadgerStore(t, func(store *badger.Store) {
		got, err := store.Get(context.Background(), []byte("missing"))
		require.NoError(t, err)
		require.Nil(t, got)
	})
}
