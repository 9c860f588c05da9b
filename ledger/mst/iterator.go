package mst

import (
	"context"

	"github.com/gammazero/deque"
)

// frame is one level of an Iterator's descent: node is the subtree
// being scanned, slot is the next child index to consider.
type frame struct {
	node *treeNode
	slot int
}

// Iterator is an in-order, skipping, lazily-expanding walker over a
// tree's populated ids (§4.3). Its total_count is fixed at
// construction. The walk reads the tree's live nodes, so a Set made
// after construction can change which entries it yields.
//
// The descent stack is a deque used purely as a LIFO, grounded on the
// ledger's own trie walk over a deque.Deque of pending nodes.
type Iterator struct {
	ldr        *loader
	totalCount int64
	cursor     int64
	stack      *deque.Deque

	curID    int64
	curValue []byte
}

func newIterator(ldr *loader, root *treeNode) *Iterator {
	it := &Iterator{
		ldr:        ldr,
		totalCount: subtreeCount(root),
		stack:      deque.New(),
	}
	it.stack.PushBack(&frame{node: root, slot: 0})
	return it
}

// TotalCount is the number of populated ids this iterator will yield.
func (it *Iterator) TotalCount() int64 { return it.totalCount }

// HasNext reports whether Next has more entries to yield.
func (it *Iterator) HasNext() bool { return it.cursor < it.totalCount }

// Next advances to the next populated id in ascending order and
// returns it. Returns ErrIteratorExhausted once HasNext is false.
func (it *Iterator) Next(ctx context.Context) (int64, []byte, error) {
	found, err := it.advance(ctx)
	if err != nil {
		return 0, nil, err
	}
	if !found {
		return 0, nil, ErrIteratorExhausted
	}
	it.cursor++
	return it.curID, it.curValue, nil
}

// advance descends the stack until it reaches the next populated
// (id, value), caching it in curID/curValue. Returns false if the
// walk is exhausted.
func (it *Iterator) advance(ctx context.Context) (bool, error) {
	for it.stack.Len() > 0 {
		top := it.stack.Back().(*frame)
		n := top.node
		if top.slot >= n.degree() {
			it.stack.PopBack()
			continue
		}
		slot := top.slot
		top.slot++
		if n.counts[slot] == 0 {
			continue
		}
		if n.isLeaf {
			value, err := n.resolveValue(ctx, it.ldr, slot)
			if err != nil {
				return false, err
			}
			it.curID = n.offset + int64(slot)*n.step
			it.curValue = value
			return true, nil
		}
		child, err := n.resolveChild(ctx, it.ldr, slot)
		if err != nil {
			return false, err
		}
		if child == nil {
			continue
		}
		it.stack.PushBack(&frame{node: child, slot: 0})
	}
	return false, nil
}

// Skip advances by exactly n populated entries without materializing
// them, using child_counts prefix sums to jump whole empty or
// uninteresting subtrees without loading them. Returns the number
// actually skipped, which is less than n only when the walk ends.
func (it *Iterator) Skip(ctx context.Context, n int64) (int64, error) {
	var skipped int64
	for skipped < n && it.stack.Len() > 0 {
		top := it.stack.Back().(*frame)
		node := top.node
		if top.slot >= node.degree() {
			it.stack.PopBack()
			continue
		}
		slot := top.slot
		count := node.counts[slot]
		if count == 0 {
			top.slot++
			continue
		}
		if node.isLeaf {
			top.slot++
			skipped++
			it.cursor++
			continue
		}

		remaining := n - skipped
		if count <= remaining {
			// Whole subtree skipped without loading it.
			top.slot++
			skipped += count
			it.cursor += count
			continue
		}

		top.slot++
		child, err := node.resolveChild(ctx, it.ldr, slot)
		if err != nil {
			return skipped, err
		}
		if child != nil {
			it.stack.PushBack(&frame{node: child, slot: 0})
		}
	}
	return skipped, nil
}
