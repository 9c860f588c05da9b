package mst

import (
	"fmt"

	"github.com/jdchain-core/mst/ledger/common"
)

// IndexEntry is the persisted form of every non-leaf position in the
// tree (§3.2). offset is the smallest id coverable under the subtree;
// step is the id span of each of the DEGREE child slots; childCounts
// and childHashes are parallel DEGREE-length arrays, nil/0 meaning an
// unpopulated slot.
type IndexEntry struct {
	Offset      int64
	Step        int64
	ChildCounts []int64
	ChildHashes [][]byte
}

// degree returns the branching factor implied by the entry's arrays.
func (e *IndexEntry) degree() int {
	return len(e.ChildCounts)
}

// EncodeIndexEntry serializes an IndexEntry per the stable wire format
// (§6.3): version, schema tag, offset, step, then the child_counts and
// child_hashes arrays in slot order, including empty slots.
func EncodeIndexEntry(e *IndexEntry) []byte {
	if len(e.ChildCounts) != len(e.ChildHashes) {
		panic("child_counts and child_hashes must have the same length")
	}

	out := make([]byte, 0, 32+len(e.ChildHashes)*40)
	out = common.AppendUint16(out, common.EncodingDecodingVersion)
	out = common.AppendUint8(out, uint8(common.SchemaIndexEntry))
	out = common.AppendInt64(out, e.Offset)
	out = common.AppendInt64(out, e.Step)

	out = common.AppendUint32(out, uint32(len(e.ChildCounts)))
	for _, c := range e.ChildCounts {
		out = common.AppendInt64(out, c)
	}

	out = common.AppendUint32(out, uint32(len(e.ChildHashes)))
	for _, h := range e.ChildHashes {
		out = common.AppendShortData(out, h)
	}

	return out
}

// DecodeIndexEntry parses bytes produced by EncodeIndexEntry.
func DecodeIndexEntry(input []byte) (*IndexEntry, error) {
	rest, err := common.CheckVersion(input)
	if err != nil {
		return nil, fmt.Errorf("cannot decode IndexEntry: %w", err)
	}
	rest, err = common.CheckSchema(rest, common.SchemaIndexEntry)
	if err != nil {
		return nil, fmt.Errorf("cannot decode IndexEntry: %w", err)
	}

	offset, rest, err := common.ReadInt64(rest)
	if err != nil {
		return nil, fmt.Errorf("cannot decode IndexEntry offset: %w", err)
	}
	step, rest, err := common.ReadInt64(rest)
	if err != nil {
		return nil, fmt.Errorf("cannot decode IndexEntry step: %w", err)
	}

	countsLen, rest, err := common.ReadUint32(rest)
	if err != nil {
		return nil, fmt.Errorf("cannot decode IndexEntry child_counts length: %w", err)
	}
	counts := make([]int64, countsLen)
	for i := range counts {
		counts[i], rest, err = common.ReadInt64(rest)
		if err != nil {
			return nil, fmt.Errorf("cannot decode IndexEntry child_counts[%d]: %w", i, err)
		}
	}

	hashesLen, rest, err := common.ReadUint32(rest)
	if err != nil {
		return nil, fmt.Errorf("cannot decode IndexEntry child_hashes length: %w", err)
	}
	if hashesLen != countsLen {
		return nil, fmt.Errorf("child_counts length (%d) and child_hashes length (%d) disagree", countsLen, hashesLen)
	}
	hashes := make([][]byte, hashesLen)
	for i := range hashes {
		var h []byte
		h, rest, err = common.ReadShortData(rest)
		if err != nil {
			return nil, fmt.Errorf("cannot decode IndexEntry child_hashes[%d]: %w", i, err)
		}
		if len(h) > 0 {
			hashes[i] = h
		}
	}

	return &IndexEntry{
		Offset:      offset,
		Step:        step,
		ChildCounts: counts,
		ChildHashes: hashes,
	}, nil
}

// EncodeLeafValue wraps a caller-supplied leaf payload with the same
// version/schema envelope as IndexEntry, so the two are never confused
// when read back out of the KV store.
func EncodeLeafValue(value []byte) []byte {
	out := make([]byte, 0, 3+len(value))
	out = common.AppendUint16(out, common.EncodingDecodingVersion)
	out = common.AppendUint8(out, uint8(common.SchemaLeafValue))
	return append(out, value...)
}

// DecodeLeafValue unwraps bytes produced by EncodeLeafValue.
func DecodeLeafValue(input []byte) ([]byte, error) {
	rest, err := common.CheckVersion(input)
	if err != nil {
		return nil, fmt.Errorf("cannot decode leaf value: %w", err)
	}
	rest, err = common.CheckSchema(rest, common.SchemaLeafValue)
	if err != nil {
		return nil, fmt.Errorf("cannot decode leaf value: %w", err)
	}
	return rest, nil
}
