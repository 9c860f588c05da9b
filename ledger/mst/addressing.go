package mst

import "github.com/jdchain-core/mst/ledger/hash"

// alignedOffset returns the start of the span of width step*degree
// that contains x, i.e. the offset a node at this step would need to
// cover x (§4.1 addressing rules, §3.2 "offset mod (step·DEGREE) == 0").
func alignedOffset(x, step int64, degree int) int64 {
	span := step * int64(degree)
	return x - (x % span)
}

// lowestCommonAncestor finds the smallest step s >= step such that x
// and offset fall under the same aligned span at step s, and returns
// that span's offset alongside s (§4.1 "set": "Find the smallest step
// s ... such that the aligned offsets of id and P.offset at step s
// coincide"). offset is assumed already aligned at step.
func lowestCommonAncestor(x, offset, step int64, degree int) (commonOffset, s int64) {
	s = step
	for {
		ox := alignedOffset(x, s, degree)
		if ox == alignedOffset(offset, s, degree) {
			return ox, s
		}
		s *= int64(degree)
	}
}

// subtreeCount sums a node's child_counts, its total populated-id
// count (§4.1 "count").
func subtreeCount(n *treeNode) int64 {
	var total int64
	for _, c := range n.counts {
		total += c
	}
	return total
}

// digestsToBytes lowers a node's in-memory hash.Digest slots to the
// raw byte slices IndexEntry encodes (empty slot -> nil -> length 0).
func digestsToBytes(ds []hash.Digest) [][]byte {
	out := make([][]byte, len(ds))
	for i, d := range ds {
		if len(d) > 0 {
			out[i] = []byte(d)
		}
	}
	return out
}
