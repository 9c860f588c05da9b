package mst

import (
	"context"
	"fmt"

	"github.com/jrick/bitset"

	"github.com/jdchain-core/mst/ledger/hash"
)

// treeNode is the shared representation of both PathNode and LeafNode
// positions described in §4.2: an IndexEntry's fields plus lazily
// resolved children (or, at the leaf layer, raw payload bytes), a
// snapshot of the state as of the last commit (for cancel), and a
// dirty flag.
//
// Dispatch between the two variants is static per node: isLeaf is
// fixed at construction (step == 1 ⇔ isLeaf) and never changes.
type treeNode struct {
	offset int64
	step   int64
	isLeaf bool

	counts []int64
	hashes []hash.Digest

	origCounts   []int64
	origHashes   []hash.Digest
	origNodeHash hash.Digest

	// children holds lazily-resolved path-layer subtrees; nil when
	// isLeaf or when a populated slot has not yet been loaded.
	children []*treeNode
	// values holds lazily-resolved leaf payloads; nil when !isLeaf or
	// when a populated slot has not yet been loaded.
	values [][]byte
	// loaded tracks which slots have been resolved into children/values,
	// so a resolved-but-still-nil (never populated) slot is not
	// re-fetched from storage on every access.
	loaded bitset.Bytes

	dirty    bool
	nodeHash hash.Digest
}

func newEmptySlots(degree int) ([]int64, []hash.Digest) {
	return make([]int64, degree), make([]hash.Digest, degree)
}

// newNode creates a brand-new, uncommitted node covering [offset,
// offset+step*degree) with every slot empty.
func newNode(offset, step int64, degree int, isLeaf bool) *treeNode {
	counts, hashes := newEmptySlots(degree)
	n := &treeNode{
		offset: offset,
		step:   step,
		isLeaf: isLeaf,
		counts: counts,
		hashes: hashes,
		loaded: bitset.NewBytes(degree),
		dirty:  true,
	}
	n.origCounts = append([]int64(nil), counts...)
	n.origHashes = append([]hash.Digest(nil), hashes...)
	if isLeaf {
		n.values = make([][]byte, degree)
	} else {
		n.children = make([]*treeNode, degree)
	}
	return n
}

// nodeFromEntry rebuilds a clean (just-loaded) node from a decoded
// IndexEntry and the digest it was fetched under.
func nodeFromEntry(entry *IndexEntry, self hash.Digest, isLeaf bool) *treeNode {
	degree := len(entry.ChildCounts)
	n := &treeNode{
		offset:       entry.Offset,
		step:         entry.Step,
		isLeaf:       isLeaf,
		counts:       append([]int64(nil), entry.ChildCounts...),
		hashes:       toDigests(entry.ChildHashes),
		loaded:       bitset.NewBytes(degree),
		dirty:        false,
		nodeHash:     self,
		origNodeHash: self,
	}
	n.origCounts = append([]int64(nil), n.counts...)
	n.origHashes = append([]hash.Digest(nil), n.hashes...)
	if isLeaf {
		n.values = make([][]byte, degree)
	} else {
		n.children = make([]*treeNode, degree)
	}
	return n
}

func toDigests(raw [][]byte) []hash.Digest {
	out := make([]hash.Digest, len(raw))
	for i, b := range raw {
		if len(b) > 0 {
			out[i] = hash.Digest(b)
		}
	}
	return out
}

func (n *treeNode) degree() int { return len(n.counts) }

// slotFor returns the slot index of id within this node, or -1 if id
// does not fall inside the node's covered range (§4.1 addressing rules).
func (n *treeNode) slotFor(id int64) int {
	span := n.step * int64(n.degree())
	if id < n.offset || id >= n.offset+span {
		return -1
	}
	return int((id - n.offset) / n.step)
}

// touch marks the slot as modified: its cached hash is invalidated
// (recomputed at commit) and the node becomes dirty. Callers must have
// already updated children[slot]/values[slot] and counts[slot].
func (n *treeNode) touch(slot int) {
	n.hashes[slot] = nil
	n.dirty = true
}

func (n *treeNode) markLoaded(slot int) {
	n.loaded.Set(slot)
}

func (n *treeNode) isLoaded(slot int) bool {
	return n.loaded.Get(slot)
}

// resolveChild returns the path-layer child node at slot, loading it
// from storage on first access. Returns nil if the slot is unpopulated.
func (n *treeNode) resolveChild(ctx context.Context, ldr *loader, slot int) (*treeNode, error) {
	if n.isLeaf {
		panic("resolveChild called on a leaf-layer node")
	}
	if n.isLoaded(slot) {
		return n.children[slot], nil
	}
	digest := n.hashes[slot]
	if len(digest) == 0 {
		n.markLoaded(slot)
		return nil, nil
	}

	entry, err := ldr.loadIndexEntry(ctx, digest)
	if err != nil {
		return nil, fmt.Errorf("cannot load child at offset %d step %d: %w", n.offset, n.step, err)
	}
	child := nodeFromEntry(entry, digest, entry.Step == 1)
	n.children[slot] = child
	n.markLoaded(slot)
	return child, nil
}

// resolveValue returns the leaf payload at slot, loading it from
// storage on first access. Returns nil if the slot is unpopulated.
func (n *treeNode) resolveValue(ctx context.Context, ldr *loader, slot int) ([]byte, error) {
	if !n.isLeaf {
		panic("resolveValue called on a path-layer node")
	}
	if n.isLoaded(slot) {
		return n.values[slot], nil
	}
	digest := n.hashes[slot]
	if len(digest) == 0 {
		n.markLoaded(slot)
		return nil, nil
	}

	value, err := ldr.loadLeafValue(ctx, digest)
	if err != nil {
		return nil, fmt.Errorf("cannot load leaf value at offset %d: %w", n.offset, err)
	}
	n.values[slot] = value
	n.markLoaded(slot)
	return value, nil
}

// cancelSubtree discards uncommitted mutations under this node,
// restoring each changed slot to its last-commit snapshot and dropping
// the corresponding cached child/value so it is re-loaded clean from
// storage if needed again; mutations further down are discarded along
// with the dropped child. Unchanged slots are left as-is.
func (n *treeNode) cancelSubtree() {
	if !n.dirty {
		return
	}
	for i := 0; i < n.degree(); i++ {
		if n.hashes[i].Equal(n.origHashes[i]) && n.counts[i] == n.origCounts[i] {
			continue
		}
		n.hashes[i] = n.origHashes[i]
		n.counts[i] = n.origCounts[i]
		if n.isLeaf {
			n.values[i] = nil
		} else {
			n.children[i] = nil
		}
		n.loaded.Unset(i)
	}
	n.dirty = false
	n.nodeHash = n.origNodeHash
}
