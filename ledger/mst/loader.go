package mst

import (
	"context"
	"fmt"

	"github.com/jdchain-core/mst/kv"
	"github.com/jdchain-core/mst/kv/operation"
	"github.com/jdchain-core/mst/ledger/hash"
)

// loader resolves lazily-referenced children/values from the backing
// KV store (§4.1 "lazy load"), optionally re-verifying their hash
// against the requested digest (verify_on_load, §3.1).
type loader struct {
	store        kv.Store
	registry     *hash.Registry
	keyPrefix    []byte
	verifyOnLoad bool
}

func (l *loader) fetch(ctx context.Context, digest hash.Digest) ([]byte, error) {
	key := operation.MakeKey(l.keyPrefix, digest)
	raw, err := l.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: reading node: %v", ErrStorageFailure, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: no node stored under requested digest", ErrNotFound)
	}
	if l.verifyOnLoad {
		hasher, err := l.registry.For(digest)
		if err != nil {
			return nil, fmt.Errorf("cannot verify loaded node: %w", err)
		}
		if !hasher.Verify(digest, raw) {
			return nil, fmt.Errorf("%w: stored bytes do not hash to requested digest", ErrHashMismatch)
		}
	}
	return raw, nil
}

func (l *loader) loadIndexEntry(ctx context.Context, digest hash.Digest) (*IndexEntry, error) {
	raw, err := l.fetch(ctx, digest)
	if err != nil {
		return nil, err
	}
	entry, err := DecodeIndexEntry(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt IndexEntry at requested digest: %w", err)
	}
	return entry, nil
}

func (l *loader) loadLeafValue(ctx context.Context, digest hash.Digest) ([]byte, error) {
	raw, err := l.fetch(ctx, digest)
	if err != nil {
		return nil, err
	}
	value, err := DecodeLeafValue(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt leaf value at requested digest: %w", err)
	}
	return value, nil
}

// put persists an already-encoded node blob under its content digest,
// honoring put-if-absent/duplicate-reporting semantics (§4.1 commit).
func (l *loader) put(ctx context.Context, digest hash.Digest, encoded []byte, reportDuplicate bool) error {
	key := operation.MakeKey(l.keyPrefix, digest)
	wrote, err := l.store.PutIfAbsent(ctx, key, encoded)
	if err != nil {
		return fmt.Errorf("%w: writing node: %v", ErrStorageFailure, err)
	}
	if !wrote && reportDuplicate {
		return fmt.Errorf("%w: node already present under this digest", ErrDuplicatePut)
	}
	return nil
}
