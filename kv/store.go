// Package kv defines the MST's storage adapter contract (§6.1): a
// put-if-absent byte store keyed by prefixed content digest. Concrete
// adapters live in kv/badger, kv/leveldb and kv/memory.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by a Store whose underlying handle has already
// been closed.
var ErrClosed = errors.New("kv: store is closed")

// Store is the KV storage adapter contract (§6.1). Keys are opaque byte
// strings; the MST always calls with key = key_prefix ‖ node_hash.
type Store interface {
	// Get returns the stored value, or (nil, nil) if key is absent.
	Get(ctx context.Context, key []byte) ([]byte, error)
	// PutIfAbsent stores (key, value) only if key was not already
	// present. Returns true if this call wrote the value, false if
	// key already existed (the MST treats this as content-addressed
	// idempotence: the existing value is guaranteed equal).
	PutIfAbsent(ctx context.Context, key, value []byte) (bool, error)
	// Close releases any resources held by the store.
	Close() error
}
