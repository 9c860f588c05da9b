// Package unittest provides the test harness shared by this module's
// package tests: ephemeral store construction, timing assertions, and
// randomized id/value fixtures, grounded on the ledger's own
// utils/unittest package.
package unittest

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jdchain-core/mst/kv/badger"
	"github.com/jdchain-core/mst/kv/leveldb"
	"github.com/jdchain-core/mst/kv/memory"
)

// AssertReturnsBefore asserts that the given function returns before
// the duration expires.
func AssertReturnsBefore(t *testing.T, f func(), duration time.Duration) {
	done := make(chan struct{})

	go func() {
		f()
		close(done)
	}()

	select {
	case <-time.After(duration):
		t.Log("function did not return in time")
		t.Fail()
	case <-done:
	}
}

// RunWithBadgerStore constructs a badger.Store in a temporary
// directory, runs f, then tears it down.
func RunWithBadgerStore(t *testing.T, f func(*badger.Store)) {
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("mst-test-badger-%d", rand.Uint64()))

	store, err := badger.Open(dir, zerolog.Nop())
	require.NoError(t, err)

	defer func() {
		store.Close()
		os.RemoveAll(dir)
	}()

	f(store)
}

// RunWithLevelDBStore constructs a leveldb.Store in a temporary
// directory, runs f, then tears it down.
func RunWithLevelDBStore(t *testing.T, f func(*leveldb.Store)) {
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("mst-test-leveldb-%d", rand.Uint64()))

	store, err := leveldb.Open(dir)
	require.NoError(t, err)

	defer func() {
		store.Close()
		os.RemoveAll(dir)
	}()

	f(store)
}

// RunWithMemoryStore runs f against a fresh in-memory store. No
// teardown is necessary.
func RunWithMemoryStore(t *testing.T, f func(*memory.Store)) {
	f(memory.New())
}

// RandomValue returns n random bytes, for tests that only care that a
// leaf payload round-trips, not its content.
func RandomValue(n int) []byte {
	v := make([]byte, n)
	rand.Read(v)
	return v
}
