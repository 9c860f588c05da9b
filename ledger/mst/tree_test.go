package mst

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/jdchain-core/mst/kv"
	"github.com/jdchain-core/mst/kv/memory"
	"github.com/jdchain-core/mst/kv/operation"
	"github.com/jdchain-core/mst/ledger/hash"
)

// testParams builds a DEGREE=4, MAX_COUNT=4^3=64 tree, matching the
// seed scenarios, which are sized for a fast test run rather than the
// production DEGREE→MAX_DEPTH table.
func testParams() Params {
	return Params{
		Degree:               4,
		HashAlgorithm:        hash.SHA256,
		KeyPrefix:            []byte("t"),
		ReportDuplicateOnPut: true,
		MaxDepthOverride:     3,
	}
}

func TestS1SingleInsert(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	tr, err := New(testParams(), store)
	require.NoError(t, err)

	require.NoError(t, tr.Set(ctx, 0, []byte("a")))
	digest, err := tr.Commit(ctx)
	require.NoError(t, err)

	require.Equal(t, int64(1), tr.Count())
	v, err := tr.Get(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("a"), v)

	v, err = tr.Get(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, v)

	// A second, independent tree fed the same insert produces the same
	// root hash (determinism, §8 property 2).
	store2 := memory.New()
	tr2, err := New(testParams(), store2)
	require.NoError(t, err)
	require.NoError(t, tr2.Set(ctx, 0, []byte("a")))
	digest2, err := tr2.Commit(ctx)
	require.NoError(t, err)

	require.True(t, digest.Equal(digest2))
}

func TestS2DistantIdsForceNewParents(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	tr, err := New(testParams(), store)
	require.NoError(t, err)

	require.NoError(t, tr.Set(ctx, 0, []byte("a")))
	require.NoError(t, tr.Set(ctx, 63, []byte("b")))
	s2Digest, err := tr.Commit(ctx)
	require.NoError(t, err)

	require.Equal(t, int64(2), tr.Count())
	v, err := tr.Get(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("a"), v)
	v, err = tr.Get(ctx, 63)
	require.NoError(t, err)
	require.Equal(t, []byte("b"), v)

	it := tr.Iterator()
	require.Equal(t, int64(2), it.TotalCount())
	id, val, err := it.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), id)
	require.Equal(t, []byte("a"), val)
	id, val, err = it.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(63), id)
	require.Equal(t, []byte("b"), val)
	require.False(t, it.HasNext())

	// root hash differs from S1's single-insert root hash.
	single := memory.New()
	trSingle, err := New(testParams(), single)
	require.NoError(t, err)
	require.NoError(t, trSingle.Set(ctx, 0, []byte("a")))
	s1Digest, err := trSingle.Commit(ctx)
	require.NoError(t, err)
	require.False(t, s2Digest.Equal(s1Digest))

	// --- S3: duplicate rejection ---
	err = tr.Set(ctx, 0, []byte("c"))
	require.ErrorIs(t, err, ErrDuplicateID)
	require.True(t, tr.RootHash().Equal(s2Digest))
	v, err = tr.Get(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("a"), v)

	// --- S4: cancel ---
	require.NoError(t, tr.Set(ctx, 5, []byte("x")))
	tr.Cancel()
	require.True(t, tr.RootHash().Equal(s2Digest))
	v, err = tr.Get(ctx, 5)
	require.NoError(t, err)
	require.Nil(t, v)

	// --- S5: reopen ---
	reopened, err := Open(ctx, s2Digest, testParams(), store)
	require.NoError(t, err)
	v, err = reopened.Get(ctx, 63)
	require.NoError(t, err)
	require.Equal(t, []byte("b"), v)
}

func TestS6CorruptedNode(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	params := testParams()
	params.VerifyOnLoad = true

	tr, err := New(params, store)
	require.NoError(t, err)
	require.NoError(t, tr.Set(ctx, 63, []byte("b")))
	root, err := tr.Commit(ctx)
	require.NoError(t, err)

	proof, err := tr.GetProof(ctx, 63)
	require.NoError(t, err)
	require.NotEmpty(t, proof)
	valueDigest := proof[len(proof)-1]
	key := operation.MakeKey(params.KeyPrefix, valueDigest)

	corrupted := &corruptingStore{Store: store, key: key}

	reopened, err := Open(ctx, root, params, corrupted)
	require.NoError(t, err)
	_, err = reopened.Get(ctx, 63)
	require.ErrorIs(t, err, ErrHashMismatch)

	paramsNoVerify := params
	paramsNoVerify.VerifyOnLoad = false
	reopened2, err := Open(ctx, root, paramsNoVerify, corrupted)
	require.NoError(t, err)
	require.NotPanics(t, func() {
		_, _ = reopened2.Get(ctx, 63)
	})
}

type corruptingStore struct {
	kv.Store
	key []byte
}

func (c *corruptingStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	v, err := c.Store.Get(ctx, key)
	if err != nil || v == nil {
		return v, err
	}
	if !bytesEqual(key, c.key) {
		return v, nil
	}
	out := append([]byte(nil), v...)
	out[len(out)-1] ^= 0xFF
	return out, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBounds(t *testing.T) {
	ctx := context.Background()
	tr, err := New(testParams(), memory.New())
	require.NoError(t, err)

	require.ErrorIs(t, tr.Set(ctx, -1, []byte("x")), ErrBadID)
	require.ErrorIs(t, tr.Set(ctx, tr.params.MaxCount(), []byte("x")), ErrBadID)
	require.ErrorIs(t, tr.Set(ctx, tr.params.MaxCount()+1, []byte("x")), ErrBadID)
	require.NoError(t, tr.Set(ctx, tr.params.MaxCount()-1, []byte("x")))
}

func TestIdempotentCommit(t *testing.T) {
	ctx := context.Background()
	tr, err := New(testParams(), memory.New())
	require.NoError(t, err)
	require.NoError(t, tr.Set(ctx, 10, []byte("v")))

	d1, err := tr.Commit(ctx)
	require.NoError(t, err)
	d2, err := tr.Commit(ctx)
	require.NoError(t, err)
	require.True(t, d1.Equal(d2))
}

func TestReadOnlyTreeRejectsMutation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	tr, err := New(testParams(), store)
	require.NoError(t, err)
	require.NoError(t, tr.Set(ctx, 1, []byte("v")))
	_, err = tr.Commit(ctx)
	require.NoError(t, err)

	params := testParams()
	params.ReadOnly = true
	ro, err := Open(ctx, tr.RootHash(), params, store)
	require.NoError(t, err)

	require.ErrorIs(t, ro.Set(ctx, 2, []byte("w")), ErrReadOnly)
	_, err = ro.Commit(ctx)
	require.ErrorIs(t, err, ErrReadOnly)
}

// TestProofValidity checks §8 property 6: for every populated id, the
// digests GetProof returns chain together with the actual stored node
// bytes to reconstruct RootHash(), each non-final hash naming a node
// that embeds the next hash in the sequence.
func TestProofValidity(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	params := testParams()

	tr, err := New(params, store)
	require.NoError(t, err)
	ids := []int64{0, 5, 17, 40, 63}
	for _, id := range ids {
		require.NoError(t, tr.Set(ctx, id, []byte{byte(id), byte(id + 1)}))
	}
	root, err := tr.Commit(ctx)
	require.NoError(t, err)

	hasher, err := hash.DefaultRegistry().Lookup(params.HashAlgorithm)
	require.NoError(t, err)

	for _, id := range ids {
		proof, err := tr.GetProof(ctx, id)
		require.NoError(t, err)
		require.NotEmpty(t, proof)
		require.True(t, proof[0].Equal(root), "proof must start at the committed root hash")

		// Walk every hash but the last: each must name a stored
		// IndexEntry whose bytes hash to it and whose ChildHashes
		// contains the next hash in the chain at the slot covering id.
		for i := 0; i < len(proof)-1; i++ {
			digest := proof[i]
			raw, err := store.Get(ctx, operation.MakeKey(params.KeyPrefix, digest))
			require.NoError(t, err)
			require.NotNil(t, raw, "proof node %d must be stored", i)
			require.True(t, hasher.Verify(digest, raw), "stored bytes must hash to the proof digest")

			entry, err := DecodeIndexEntry(raw)
			require.NoError(t, err)
			slot := int((id - entry.Offset) / entry.Step)
			require.True(t, hash.Digest(entry.ChildHashes[slot]).Equal(proof[i+1]),
				"node at proof[%d] must embed proof[%d] at id's slot", i, i+1)
		}

		// The final hash is the value's own content digest; its bytes
		// must be stored and hash back to it.
		valueDigest := proof[len(proof)-1]
		raw, err := store.Get(ctx, operation.MakeKey(params.KeyPrefix, valueDigest))
		require.NoError(t, err)
		require.NotNil(t, raw)
		require.True(t, hasher.Verify(valueDigest, raw))
		decoded, err := DecodeLeafValue(raw)
		require.NoError(t, err)
		require.Equal(t, []byte{byte(id), byte(id + 1)}, decoded)
	}

	// An unpopulated id yields no proof.
	proof, err := tr.GetProof(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, proof)
}

func TestRandomizedRoundTripAndDeterminism(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	params := testParams()

	ids := rng.Perm(64)[:20]
	values := make(map[int64][]byte, len(ids))
	for _, id := range ids {
		values[int64(id)] = []byte{byte(id)}
	}

	build := func(order []int) hash.Digest {
		tr, err := New(params, memory.New())
		require.NoError(t, err)
		for _, id := range order {
			require.NoError(t, tr.Set(ctx, int64(id), values[int64(id)]))
		}
		d, err := tr.Commit(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(len(order)), tr.Count())
		for _, id := range order {
			v, err := tr.Get(ctx, int64(id))
			require.NoError(t, err)
			require.Equal(t, values[int64(id)], v)
		}
		return d
	}

	d1 := build(ids)

	shuffled := append([]int(nil), ids...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	d2 := build(shuffled)

	require.True(t, d1.Equal(d2))
}
