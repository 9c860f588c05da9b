package mst

import "errors"

// Sentinel errors per §7. Every wrapped occurrence downstream remains
// matchable with errors.Is.
var (
	// ErrBadID is raised when id falls outside [0, MAX_COUNT).
	ErrBadID = errors.New("mst: id out of range")
	// ErrDuplicateID is raised by Set against an already-populated id
	// under the default reject duplicate policy.
	ErrDuplicateID = errors.New("mst: id already populated")
	// ErrReadOnly is raised by a mutating call on a read-only tree.
	ErrReadOnly = errors.New("mst: tree is read-only")
	// ErrNotFound is raised when the KV store has no bytes under an
	// expected node digest.
	ErrNotFound = errors.New("mst: node not found in storage")
	// ErrHashMismatch is raised when verify_on_load rejects loaded bytes.
	ErrHashMismatch = errors.New("mst: loaded bytes do not match requested hash")
	// ErrBadChild is raised when installing a child with an (offset,
	// step) inconsistent with its parent slot.
	ErrBadChild = errors.New("mst: child offset/step inconsistent with parent slot")
	// ErrBadRoot is raised when a loaded root has an unsupported DEGREE
	// or a malformed encoding.
	ErrBadRoot = errors.New("mst: root is malformed or has unsupported degree")
	// ErrDuplicatePut is raised when the KV store's put-if-absent
	// reports a collision and duplicate reporting is enabled.
	ErrDuplicatePut = errors.New("mst: node already present under this digest")
	// ErrBadParams is raised by Params.Validate for an inconsistent
	// parameter set (e.g. unsupported DEGREE).
	ErrBadParams = errors.New("mst: invalid tree parameters")
	// ErrStorageFailure wraps an I/O error surfaced by the KV adapter.
	ErrStorageFailure = errors.New("mst: storage adapter failure")
	// ErrIteratorExhausted is raised by Iterator.Next once HasNext is false.
	ErrIteratorExhausted = errors.New("mst: iterator exhausted")
)
