// Package leveldb adapts github.com/syndtr/goleveldb to the MST's
// kv.Store contract, demonstrating that the storage adapter is
// swappable the way the ledger's storage/ledger/trie package supports
// both badger and leveldb-backed databases.
package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/jdchain-core/mst/kv"
)

// Store is a goleveldb-backed kv.Store.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if necessary) a leveldb database at dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("could not open leveldb store: %w", err)
	}
	return &Store{db: db}, nil
}

// Get implements kv.Store.
func (s *Store) Get(_ context.Context, key []byte) ([]byte, error) {
	value, err := s.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read key from leveldb: %w", err)
	}
	return value, nil
}

// PutIfAbsent implements kv.Store using a leveldb transaction so the
// existence check and the write are atomic with respect to other
// transactions on the same database.
func (s *Store) PutIfAbsent(_ context.Context, key, value []byte) (bool, error) {
	tx, err := s.db.OpenTransaction()
	if err != nil {
		return false, fmt.Errorf("could not start leveldb transaction: %w", err)
	}

	exists, err := tx.Has(key, nil)
	if err != nil {
		tx.Discard()
		return false, fmt.Errorf("could not check key existence in leveldb: %w", err)
	}
	if exists {
		tx.Discard()
		return false, nil
	}

	if err := tx.Put(key, value, nil); err != nil {
		tx.Discard()
		return false, fmt.Errorf("could not stage key write in leveldb: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("could not commit leveldb transaction: %w", err)
	}
	return true, nil
}

// Close implements kv.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ kv.Store = (*Store)(nil)
