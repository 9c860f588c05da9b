package mst

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotForWithinAndOutsideRange(t *testing.T) {
	n := newNode(16, 4, 4, false) // covers [16, 32)

	require.Equal(t, 0, n.slotFor(16))
	require.Equal(t, 1, n.slotFor(19))
	require.Equal(t, 3, n.slotFor(31))
	require.Equal(t, -1, n.slotFor(15))
	require.Equal(t, -1, n.slotFor(32))
}

func TestTouchInvalidatesHashAndMarksDirty(t *testing.T) {
	n := newNode(0, 1, 4, true)
	n.hashes[0] = []byte{1, 2, 3}
	n.dirty = false

	n.touch(0)

	require.Nil(t, n.hashes[0])
	require.True(t, n.dirty)
}

func TestCancelSubtreeRestoresOnlyChangedSlots(t *testing.T) {
	n := newNode(0, 1, 4, true)

	// Slot 1 carries a pre-existing, already-committed value: establish
	// that as the "orig" snapshot before making any in-place changes.
	n.hashes[1] = []byte{1, 1}
	n.counts[1] = 1
	n.values[1] = []byte("old")
	n.markLoaded(1)
	n.origHashes[1] = n.hashes[1]
	n.origCounts[1] = n.counts[1]
	n.dirty = false
	n.nodeHash = []byte{0xAB}
	n.origNodeHash = n.nodeHash

	// Mutate slot 0 only.
	n.values[0] = []byte("a")
	n.counts[0] = 1
	n.markLoaded(0)
	n.touch(0)
	n.hashes[0] = []byte{9, 9}

	n.cancelSubtree()

	require.False(t, n.dirty)
	require.Nil(t, n.hashes[0])
	require.Equal(t, int64(0), n.counts[0])
	require.False(t, n.isLoaded(0))
	require.Equal(t, []byte{0xAB}, []byte(n.nodeHash))

	// Untouched slot 1 is left exactly as it was.
	require.Equal(t, []byte("old"), n.values[1])
	require.True(t, n.isLoaded(1))
}
