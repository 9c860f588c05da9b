// Package badger adapts github.com/dgraph-io/badger/v2 to the MST's
// kv.Store contract, the way the ledger's storage/badger package
// wraps badger transactions for its own record types.
package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/jdchain-core/mst/kv"
)

// Store is a badger-backed kv.Store.
type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

// Open opens (creating if necessary) a badger database at dir.
func Open(dir string, log zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open badger store: %w", err)
	}
	return &Store{db: db, log: log.With().Str("component", "kv/badger").Logger()}, nil
}

// Get implements kv.Store.
func (s *Store) Get(_ context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("could not read key from badger: %w", err)
	}
	return value, nil
}

// PutIfAbsent implements kv.Store.
func (s *Store) PutIfAbsent(_ context.Context, key, value []byte) (bool, error) {
	wrote := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			wrote = true
			return txn.Set(key, value)
		case err != nil:
			return err
		default:
			// key already present; content-addressed, so the stored
			// value is assumed equal and this is a no-op success.
			return nil
		}
	})
	if err != nil {
		return false, fmt.Errorf("could not write key to badger: %w", err)
	}
	if wrote {
		s.log.Debug().Int("bytes", len(value)).Msg("wrote node")
	}
	return wrote, nil
}

// Close implements kv.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ kv.Store = (*Store)(nil)
