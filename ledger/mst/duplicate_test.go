package mst

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRejectDuplicatesAllowsFirstWrite(t *testing.T) {
	v, write, err := RejectDuplicates(1, nil, []byte("a"))
	require.NoError(t, err)
	require.True(t, write)
	require.Equal(t, []byte("a"), v)
}

func TestRejectDuplicatesRejectsSecondWrite(t *testing.T) {
	_, write, err := RejectDuplicates(1, []byte("a"), []byte("b"))
	require.ErrorIs(t, err, ErrDuplicateID)
	require.False(t, write)
}

func TestOverwriteDuplicatesAlwaysWrites(t *testing.T) {
	v, write, err := OverwriteDuplicates(1, []byte("a"), []byte("b"))
	require.NoError(t, err)
	require.True(t, write)
	require.Equal(t, []byte("b"), v)
}
