// Package cached decorates a kv.Store with a bounded, in-memory
// read-through cache, grounded on the ledger's storage/badger cache.go
// entity cache (same get-or-retrieve-then-cache shape, options
// pattern), rebuilt on hashicorp/golang-lru instead of a hand-rolled
// map-with-random-eviction since this is a general-purpose byte cache
// rather than one-off entity storage.
package cached

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/jdchain-core/mst/kv"
)

const defaultSize = 8192

// Option configures a Store at construction.
type Option func(*config)

type config struct {
	size int
}

// WithSize overrides the default cache capacity (entries, not bytes).
func WithSize(size int) Option {
	return func(c *config) { c.size = size }
}

// Store wraps an underlying kv.Store with an LRU cache of previously
// fetched values. Content-addressing makes this safe: a key's value
// never changes once written, so a cached hit is always correct.
type Store struct {
	next  kv.Store
	cache *lru.Cache
}

// New wraps next with an LRU read-through cache.
func New(next kv.Store, opts ...Option) (*Store, error) {
	cfg := config{size: defaultSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	cache, err := lru.New(cfg.size)
	if err != nil {
		return nil, fmt.Errorf("cached: cannot construct LRU cache: %w", err)
	}
	return &Store{next: next, cache: cache}, nil
}

func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	if cached, ok := s.cache.Get(string(key)); ok {
		return cached.([]byte), nil
	}
	value, err := s.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if value != nil {
		s.cache.Add(string(key), value)
	}
	return value, nil
}

// PutIfAbsent writes through to the underlying store first: a cached
// write that later turned out to collide with an existing key would
// otherwise leave the cache holding the wrong semantics for "wrote".
func (s *Store) PutIfAbsent(ctx context.Context, key, value []byte) (bool, error) {
	wrote, err := s.next.PutIfAbsent(ctx, key, value)
	if err != nil {
		return false, err
	}
	s.cache.Add(string(key), value)
	return wrote, nil
}

func (s *Store) Close() error {
	return s.next.Close()
}

var _ kv.Store = (*Store)(nil)
