package mst

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jdchain-core/mst/kv/memory"
)

func buildTestTree(t *testing.T, ctx context.Context, ids []int64) *Tree {
	tr, err := New(testParams(), memory.New())
	require.NoError(t, err)
	for _, id := range ids {
		require.NoError(t, tr.Set(ctx, id, []byte{byte(id)}))
	}
	_, err = tr.Commit(ctx)
	require.NoError(t, err)
	return tr
}

func TestIteratorTotalityAndOrder(t *testing.T) {
	ctx := context.Background()
	ids := []int64{5, 0, 63, 17, 30}
	tr := buildTestTree(t, ctx, ids)

	it := tr.Iterator()
	require.Equal(t, int64(len(ids)), it.TotalCount())

	var seen []int64
	for it.HasNext() {
		id, val, err := it.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, []byte{byte(id)}, val)
		seen = append(seen, id)
	}
	require.Equal(t, []int64{0, 5, 17, 30, 63}, seen)

	_, _, err := it.Next(ctx)
	require.ErrorIs(t, err, ErrIteratorExhausted)
}

func TestIteratorSkipMatchesNext(t *testing.T) {
	ctx := context.Background()
	ids := []int64{1, 2, 3, 10, 20, 40, 63}

	for k := 0; k <= len(ids); k++ {
		tr := buildTestTree(t, ctx, ids)

		viaSkip := tr.Iterator()
		skipped, err := viaSkip.Skip(ctx, int64(k))
		require.NoError(t, err)
		require.Equal(t, int64(k), skipped)
		var tailViaSkip []int64
		for viaSkip.HasNext() {
			id, _, err := viaSkip.Next(ctx)
			require.NoError(t, err)
			tailViaSkip = append(tailViaSkip, id)
		}

		viaNext := tr.Iterator()
		for i := 0; i < k; i++ {
			_, _, err := viaNext.Next(ctx)
			require.NoError(t, err)
		}
		var tailViaNext []int64
		for viaNext.HasNext() {
			id, _, err := viaNext.Next(ctx)
			require.NoError(t, err)
			tailViaNext = append(tailViaNext, id)
		}

		require.Equal(t, tailViaNext, tailViaSkip)
	}
}

func TestIteratorSkipPastEndReturnsFewer(t *testing.T) {
	ctx := context.Background()
	tr := buildTestTree(t, ctx, []int64{1, 2, 3})

	it := tr.Iterator()
	skipped, err := it.Skip(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, int64(3), skipped)
	require.False(t, it.HasNext())
}
