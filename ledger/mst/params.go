package mst

import (
	"fmt"

	"github.com/jdchain-core/mst/ledger/hash"
)

// degreeDepths is the fixed DEGREE → MAX_DEPTH table this module
// commits to (§3.1, §9 Open Question: the source's exact table is not
// replicated here; any table satisfying DEGREE^MAX_DEPTH < 2^63 is
// correct when on-disk compatibility with an existing deployment is
// not required).
var degreeDepths = map[int]int{
	4:  30,
	8:  20,
	16: 15,
}

// Params holds the immutable, per-tree parameters of §3.1.
type Params struct {
	// Degree is the branching factor of every internal node. Must be
	// one of 4, 8, 16.
	Degree int
	// HashAlgorithm selects the hash function from the registry that
	// every node in this tree is hashed and verified with.
	HashAlgorithm hash.Algorithm
	// KeyPrefix is the byte prefix under which all of this tree's
	// nodes live in the KV store.
	KeyPrefix []byte
	// VerifyOnLoad, if true, re-hashes loaded node bytes and compares
	// them against the requested digest.
	VerifyOnLoad bool
	// ReportDuplicateOnPut controls whether a content-addressed
	// collision on commit is treated as an error (ErrDuplicatePut) or
	// silently accepted as idempotent. The zero value (false) accepts
	// the collision; withDefaults does not change it.
	ReportDuplicateOnPut bool
	// DuplicatePolicy governs what happens when Set targets an
	// already-populated id. Defaults to RejectDuplicates.
	DuplicatePolicy DuplicatePolicy
	// ReadOnly rejects Set and Commit with ErrReadOnly; Cancel on a
	// read-only tree does nothing.
	ReadOnly bool
	// MaxDepthOverride, if non-zero, replaces the degreeDepths table
	// lookup. Production callers leave this zero; tests use it to build
	// small trees (e.g. DEGREE=4, MAX_COUNT=64 needs depth=3) without
	// waiting on a MAX_COUNT in the billions.
	MaxDepthOverride int
}

// maxDepth returns this Params' MAX_DEPTH.
func (p Params) maxDepth() int {
	if p.MaxDepthOverride > 0 {
		return p.MaxDepthOverride
	}
	return degreeDepths[p.Degree]
}

// MaxCount returns MAX_COUNT = DEGREE^MAX_DEPTH, the exclusive upper
// bound on legal ids.
func (p Params) MaxCount() int64 {
	depth := p.maxDepth()
	count := int64(1)
	for i := 0; i < depth; i++ {
		count *= int64(p.Degree)
	}
	return count
}

// rootStep returns the step of the root node: MAX_COUNT / DEGREE, so
// the root covers the full id space in DEGREE slots.
func (p Params) rootStep() int64 {
	return p.MaxCount() / int64(p.Degree)
}

// Validate checks Params for internal consistency before a tree is
// constructed, aggregating every violation found rather than stopping
// at the first (grounded on the ledger's preference for
// hashicorp/go-multierror when validating several independent fields).
func (p Params) Validate() error {
	var errs errorList
	if _, ok := degreeDepths[p.Degree]; !ok {
		errs.add(fmt.Errorf("%w: unsupported degree %d (supported: 4, 8, 16)", ErrBadParams, p.Degree))
	}
	if len(p.KeyPrefix) == 0 {
		errs.add(fmt.Errorf("%w: key prefix must not be empty", ErrBadParams))
	}
	return errs.orNil()
}

// withDefaults fills in the default DuplicatePolicy if the caller left
// it nil.
func (p Params) withDefaults() Params {
	if p.DuplicatePolicy == nil {
		p.DuplicatePolicy = RejectDuplicates
	}
	return p
}
