// Package memory provides an in-process kv.Store, used by the MST's
// own tests and by cmd/mstctl's --store=memory mode. Grounded on the
// ledger's storage/badger.Cache map-plus-mutex pattern.
package memory

import (
	"context"
	"sync"

	"github.com/jdchain-core/mst/kv"
)

// Store is an in-memory kv.Store backed by a plain map.
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get implements kv.Store.
func (s *Store) Get(_ context.Context, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, kv.ErrClosed
	}
	v, ok := s.data[string(key)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// PutIfAbsent implements kv.Store.
func (s *Store) PutIfAbsent(_ context.Context, key, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, kv.ErrClosed
	}
	if _, ok := s.data[string(key)]; ok {
		return false, nil
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[string(key)] = v
	return true, nil
}

// Close implements kv.Store. A memory Store holds no external resources
// beyond the map itself, but still rejects further use so tests can
// exercise the same lifecycle contract as the persistent adapters.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len returns the number of entries currently stored, mainly useful in tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ kv.Store = (*Store)(nil)
