// Package mst implements the Merkle Sorted Tree: an authenticated,
// persistent, sparse indexing structure addressed by a fixed numeric
// id space rather than by insertion order (see SPEC_FULL.md §3-§4).
package mst

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jdchain-core/mst/kv"
	"github.com/jdchain-core/mst/ledger/hash"
	"github.com/jdchain-core/mst/module/metrics"
	"github.com/jdchain-core/mst/module/trace"
)

// Tree is the MST core (§4.1). All mutating methods (Set, Commit,
// Cancel) are single-writer: callers must serialize their own calls,
// per §5.
type Tree struct {
	params Params
	ldr    *loader
	hasher hash.Hasher

	root       *treeNode
	checkpoint *treeNode // nil until the first successful Commit

	log     zerolog.Logger
	metrics metrics.Collector
	tracer  trace.Tracer
}

// Option configures optional collaborators on New/Open.
type Option func(*Tree)

// WithLogger attaches a zerolog.Logger; defaults to a disabled logger.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tree) { t.log = log }
}

// WithMetrics attaches a metrics.Collector; defaults to metrics.NoopCollector.
func WithMetrics(c metrics.Collector) Option {
	return func(t *Tree) { t.metrics = c }
}

// WithTracer attaches a trace.Tracer; defaults to trace.NoopTracer.
func WithTracer(tr trace.Tracer) Option {
	return func(t *Tree) { t.tracer = tr }
}

// WithHashRegistry overrides the registry New/Open resolve
// Params.HashAlgorithm against; defaults to hash.DefaultRegistry().
func WithHashRegistry(r *hash.Registry) Option {
	return func(t *Tree) { t.ldr.registry = r }
}

func newTree(params Params, store kv.Store, opts []Option) (*Tree, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params = params.withDefaults()

	t := &Tree{
		params: params,
		ldr: &loader{
			store:        store,
			registry:     hash.DefaultRegistry(),
			keyPrefix:    params.KeyPrefix,
			verifyOnLoad: params.VerifyOnLoad,
		},
		log:     zerolog.Nop(),
		metrics: metrics.NoopCollector{},
		tracer:  trace.NoopTracer{},
	}
	for _, opt := range opts {
		opt(t)
	}

	hasher, err := t.ldr.registry.Lookup(params.HashAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadParams, err)
	}
	t.hasher = hasher
	return t, nil
}

// New constructs an empty tree: a root path node at offset=0, step =
// MAX_COUNT/DEGREE, with every slot empty (§4.1 "Empty tree").
func New(params Params, store kv.Store, opts ...Option) (*Tree, error) {
	t, err := newTree(params, store, opts)
	if err != nil {
		return nil, err
	}
	t.root = newRootNode(t.params)
	return t, nil
}

func newRootNode(p Params) *treeNode {
	step := p.rootStep()
	return newNode(0, step, p.Degree, step == 1)
}

// Open loads a tree rooted at rootHash (§4.1 "Load-at-root"). DEGREE is
// inferred from the decoded root's child array length; it must be a
// degree this module supports, else ErrBadRoot.
func Open(ctx context.Context, rootHash hash.Digest, params Params, store kv.Store, opts ...Option) (*Tree, error) {
	t, err := newTree(params, store, opts)
	if err != nil {
		return nil, err
	}

	ctx, span := t.tracer.StartSpan(ctx, "mst.Open")
	defer span.Finish()

	raw, err := t.ldr.fetch(ctx, rootHash)
	if err != nil {
		return nil, fmt.Errorf("cannot load root: %w", err)
	}
	entry, err := DecodeIndexEntry(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRoot, err)
	}
	degree := len(entry.ChildCounts)
	if _, ok := degreeDepths[degree]; !ok {
		return nil, fmt.Errorf("%w: root has unsupported degree %d", ErrBadRoot, degree)
	}
	t.params.Degree = degree
	expectedStep := t.params.rootStep()
	if entry.Offset != 0 || entry.Step != expectedStep {
		return nil, fmt.Errorf("%w: root offset/step (%d,%d) do not match degree-%d tree shape",
			ErrBadRoot, entry.Offset, entry.Step, degree)
	}

	t.root = nodeFromEntry(entry, rootHash, entry.Step == 1)
	t.checkpoint = t.root
	return t, nil
}

// Set inserts or updates one leaf (§4.1 "set"). id must lie in
// [0, MAX_COUNT); writing to an already-populated id is governed by
// Params.DuplicatePolicy (default: reject).
func (t *Tree) Set(ctx context.Context, id int64, value []byte) error {
	if t.params.ReadOnly {
		return ErrReadOnly
	}
	if id < 0 || id >= t.params.MaxCount() {
		return ErrBadID
	}

	start := time.Now()
	defer func() { t.metrics.SetDuration(time.Since(start)) }()

	newRoot, err := t.merge(ctx, t.root, id, value)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

// merge implements §4.1's merge rule: p is the subtree currently
// occupying some slot (or the tree root); it returns the subtree that
// should occupy that position afterwards, which is p itself (mutated
// in place) unless id fell outside p's span, in which case a fresh
// parent wrapping p and a new leaf is returned.
func (t *Tree) merge(ctx context.Context, p *treeNode, id int64, value []byte) (*treeNode, error) {
	degree := p.degree()
	commonOffset, s := lowestCommonAncestor(id, p.offset, p.step, degree)

	if s == p.step && commonOffset == p.offset {
		slot := p.slotFor(id)
		if p.isLeaf {
			if err := t.setLeafSlot(ctx, p, slot, id, value); err != nil {
				return nil, err
			}
			return p, nil
		}

		child, err := p.resolveChild(ctx, t.ldr, slot)
		if err != nil {
			return nil, err
		}
		if child == nil {
			leafOffset := alignedOffset(id, 1, degree)
			child = newNode(leafOffset, 1, degree, true)
		}
		newChild, err := t.merge(ctx, child, id, value)
		if err != nil {
			return nil, err
		}
		if newChild == child && !newChild.dirty {
			// Nothing below changed (the duplicate policy declined the write).
			return p, nil
		}
		p.children[slot] = newChild
		p.markLoaded(slot)
		p.counts[slot] = subtreeCount(newChild)
		p.touch(slot)
		return p, nil
	}

	// id is outside p: wrap p and a fresh leaf in a new parent at
	// (commonOffset, s).
	newParent := newNode(commonOffset, s, degree, false)

	pSlot := newParent.slotFor(p.offset)
	if pSlot < 0 {
		return nil, fmt.Errorf("%w: computed parent does not cover existing subtree", ErrBadChild)
	}
	newParent.children[pSlot] = p
	newParent.markLoaded(pSlot)
	newParent.counts[pSlot] = subtreeCount(p)
	newParent.touch(pSlot)

	leafOffset := alignedOffset(id, 1, degree)
	newLeaf := newNode(leafOffset, 1, degree, true)
	newChild, err := t.merge(ctx, newLeaf, id, value)
	if err != nil {
		return nil, err
	}
	leafSlot := newParent.slotFor(newChild.offset)
	if leafSlot < 0 || leafSlot == pSlot {
		return nil, fmt.Errorf("%w: computed leaf slot collides with existing subtree", ErrBadChild)
	}
	newParent.children[leafSlot] = newChild
	newParent.markLoaded(leafSlot)
	newParent.counts[leafSlot] = subtreeCount(newChild)
	newParent.touch(leafSlot)

	return newParent, nil
}

func (t *Tree) setLeafSlot(ctx context.Context, p *treeNode, slot int, id int64, value []byte) error {
	existing, err := p.resolveValue(ctx, t.ldr, slot)
	if err != nil {
		return err
	}
	newValue, write, err := t.params.DuplicatePolicy(id, existing, value)
	if err != nil {
		return err
	}
	if !write {
		return nil
	}
	p.values[slot] = newValue
	p.markLoaded(slot)
	if existing == nil {
		p.counts[slot] = 1
	}
	p.touch(slot)
	return nil
}

// Get returns the payload at id, or nil if unpopulated (§4.1 "get").
func (t *Tree) Get(ctx context.Context, id int64) ([]byte, error) {
	if id < 0 || id >= t.params.MaxCount() {
		return nil, ErrBadID
	}
	start := time.Now()
	defer func() { t.metrics.GetDuration(time.Since(start)) }()
	return t.get(ctx, t.root, id)
}

func (t *Tree) get(ctx context.Context, p *treeNode, id int64) ([]byte, error) {
	slot := p.slotFor(id)
	if slot < 0 {
		return nil, nil
	}
	if p.isLoaded(slot) {
		t.metrics.CacheHit()
	} else if len(p.hashes[slot]) > 0 {
		t.metrics.CacheMiss()
	}
	if p.isLeaf {
		return p.resolveValue(ctx, t.ldr, slot)
	}
	child, err := p.resolveChild(ctx, t.ldr, slot)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, nil
	}
	return t.get(ctx, child, id)
}

// GetProof returns the root-first sequence of digests authenticating
// id's value against RootHash() (§4.1 "get_proof"), or nil if id is
// unpopulated. The tree must be free of uncommitted changes: a proof
// is only meaningful against a hash the caller can independently
// reconstruct, which is always the last committed root hash.
func (t *Tree) GetProof(ctx context.Context, id int64) ([]hash.Digest, error) {
	if id < 0 || id >= t.params.MaxCount() {
		return nil, ErrBadID
	}
	if t.root.dirty {
		return nil, fmt.Errorf("mst: cannot build a proof while the tree has uncommitted changes; call Commit or Cancel first")
	}
	return t.proof(ctx, t.root, id)
}

func (t *Tree) proof(ctx context.Context, p *treeNode, id int64) ([]hash.Digest, error) {
	slot := p.slotFor(id)
	if slot < 0 || len(p.hashes[slot]) == 0 {
		return nil, nil
	}
	if p.isLeaf {
		return []hash.Digest{p.nodeHash, p.hashes[slot]}, nil
	}
	child, err := p.resolveChild(ctx, t.ldr, slot)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, nil
	}
	rest, err := t.proof(ctx, child, id)
	if err != nil {
		return nil, err
	}
	if rest == nil {
		return nil, nil
	}
	return append([]hash.Digest{p.nodeHash}, rest...), nil
}

// Commit persists all dirty nodes bottom-up and returns the new root
// hash (§4.1 "commit"). A second Commit with no intervening Set is a
// no-op that performs no additional writes (idempotent commit).
func (t *Tree) Commit(ctx context.Context) (hash.Digest, error) {
	if t.params.ReadOnly {
		return nil, ErrReadOnly
	}

	start := time.Now()
	ctx, span := t.tracer.StartSpan(ctx, "mst.Commit")
	defer span.Finish()

	written := 0
	digest, err := t.commitNode(ctx, t.root, &written)
	if err != nil {
		return nil, err
	}
	t.checkpoint = t.root

	t.metrics.CommitDuration(time.Since(start))
	t.metrics.NodesWritten(written)
	t.metrics.TreeSize(t.Count())
	t.log.Debug().Int("nodes_written", written).Msg("committed tree")
	return digest, nil
}

func (t *Tree) commitNode(ctx context.Context, n *treeNode, written *int) (hash.Digest, error) {
	if !n.dirty {
		return n.nodeHash, nil
	}

	for i := 0; i < n.degree(); i++ {
		if len(n.hashes[i]) > 0 || n.counts[i] == 0 {
			continue
		}
		if n.isLeaf {
			encoded := EncodeLeafValue(n.values[i])
			digest := t.hasher.Hash(encoded)
			if err := t.ldr.put(ctx, digest, encoded, t.params.ReportDuplicateOnPut); err != nil {
				return nil, err
			}
			(*written)++
			n.hashes[i] = digest
			continue
		}
		child := n.children[i]
		if child == nil {
			return nil, fmt.Errorf("mst: internal inconsistency: populated slot %d has no resolved child at commit", i)
		}
		childDigest, err := t.commitNode(ctx, child, written)
		if err != nil {
			return nil, err
		}
		n.hashes[i] = childDigest
	}

	entry := &IndexEntry{
		Offset:      n.offset,
		Step:        n.step,
		ChildCounts: append([]int64(nil), n.counts...),
		ChildHashes: digestsToBytes(n.hashes),
	}
	encoded := EncodeIndexEntry(entry)
	digest := t.hasher.Hash(encoded)
	if err := t.ldr.put(ctx, digest, encoded, t.params.ReportDuplicateOnPut); err != nil {
		return nil, err
	}
	(*written)++

	n.nodeHash = digest
	n.dirty = false
	n.origCounts = append([]int64(nil), n.counts...)
	n.origHashes = append([]hash.Digest(nil), n.hashes...)
	n.origNodeHash = digest
	return digest, nil
}

// Cancel discards uncommitted state (§4.1 "cancel"). No KV writes
// occur; a subsequent Get observes only committed state. On a read-only
// tree Cancel does nothing and reports no error.
func (t *Tree) Cancel() {
	if t.params.ReadOnly {
		return
	}
	if t.checkpoint == nil {
		t.root = newRootNode(t.params)
		return
	}
	t.root = t.checkpoint
	t.root.cancelSubtree()
}

// RootHash returns the last committed root hash, or nil for a tree
// that has never been committed.
func (t *Tree) RootHash() hash.Digest {
	if t.checkpoint == nil {
		return nil
	}
	return t.checkpoint.nodeHash
}

// Count returns the sum of child_counts at the root (§4.1 "count"),
// reflecting the tree's current in-memory state whether or not it has
// been committed.
func (t *Tree) Count() int64 {
	return subtreeCount(t.root)
}

// Iterator returns an in-order walker over the tree's populated ids (§4.3).
func (t *Tree) Iterator() *Iterator {
	return newIterator(t.ldr, t.root)
}
