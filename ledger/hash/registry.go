// Package hash implements the MST's hash function registry (§6.2): a
// mapping from an algorithm identifier to a hash/verify pair. A Digest
// is self-describing of its algorithm so nodes persisted under one
// root never get re-hashed with the wrong function.
package hash

import (
	"bytes"
	"fmt"
)

// Algorithm identifies a hash function registered with the tree.
type Algorithm uint8

const (
	// SHA256 is the default algorithm; implemented on the standard
	// library since no ecosystem dependency beats crypto/sha256 for
	// a fixed-output, non-keyed digest (see DESIGN.md).
	SHA256 Algorithm = iota
	// Keccak256 reuses go-ethereum's implementation.
	Keccak256
	// Blake2b256 reuses golang.org/x/crypto's implementation.
	Blake2b256
)

func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "sha256"
	case Keccak256:
		return "keccak256"
	case Blake2b256:
		return "blake2b256"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// Digest is algorithm-tag ‖ raw-hash: self-describing, so mixing
// algorithms within one tree can be detected and rejected.
type Digest []byte

// Algorithm returns the algorithm tag embedded in the digest, or an
// error if the digest is too short to carry one.
func (d Digest) Algorithm() (Algorithm, error) {
	if len(d) < 1 {
		return 0, fmt.Errorf("digest too short to carry an algorithm tag")
	}
	return Algorithm(d[0]), nil
}

// Raw returns the hash bytes without the algorithm tag.
func (d Digest) Raw() []byte {
	if len(d) < 1 {
		return nil
	}
	return d[1:]
}

// Equal reports whether two digests carry the same algorithm and raw hash.
func (d Digest) Equal(other Digest) bool {
	return bytes.Equal(d, other)
}

// Hasher is the contract every registered algorithm must satisfy (§6.2).
type Hasher interface {
	Algorithm() Algorithm
	// Hash returns a self-describing digest of data.
	Hash(data []byte) Digest
	// Verify re-hashes data and compares against d. d must carry this
	// Hasher's algorithm tag; a mismatched tag is always false.
	Verify(d Digest, data []byte) bool
}

// Registry maps an Algorithm to its Hasher.
type Registry struct {
	hashers map[Algorithm]Hasher
}

// NewRegistry builds a Registry pre-populated with every Hasher in hs.
func NewRegistry(hs ...Hasher) *Registry {
	r := &Registry{hashers: make(map[Algorithm]Hasher, len(hs))}
	for _, h := range hs {
		r.hashers[h.Algorithm()] = h
	}
	return r
}

// DefaultRegistry returns a Registry carrying every algorithm shipped
// with this module.
func DefaultRegistry() *Registry {
	return NewRegistry(NewSHA256(), NewKeccak256(), NewBlake2b256())
}

// Lookup returns the Hasher for alg, or an error if it is not registered.
func (r *Registry) Lookup(alg Algorithm) (Hasher, error) {
	h, ok := r.hashers[alg]
	if !ok {
		return nil, fmt.Errorf("no hasher registered for algorithm %s", alg)
	}
	return h, nil
}

// For returns the Hasher whose algorithm matches the digest's embedded
// tag. Used when verifying nodes loaded from storage: the digest
// requested on the call always dictates which hasher runs.
func (r *Registry) For(d Digest) (Hasher, error) {
	alg, err := d.Algorithm()
	if err != nil {
		return nil, err
	}
	return r.Lookup(alg)
}
