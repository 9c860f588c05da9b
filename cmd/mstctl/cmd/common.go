package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/jdchain-core/mst/kv"
	"github.com/jdchain-core/mst/kv/badger"
	"github.com/jdchain-core/mst/kv/cached"
	"github.com/jdchain-core/mst/kv/leveldb"
	"github.com/jdchain-core/mst/kv/memory"
	"github.com/jdchain-core/mst/ledger/hash"
	"github.com/jdchain-core/mst/ledger/mst"
	"github.com/jdchain-core/mst/module/trace"
)

var memoryStore *memory.Store // shared across commands in a single process invocation

func openStore() (kv.Store, error) {
	switch flagStore {
	case "badger":
		store, err := badger.Open(flagDataDir, log.Logger)
		if err != nil {
			return nil, fmt.Errorf("opening badger store: %w", err)
		}
		wrapped, err := cached.New(store)
		if err != nil {
			return nil, err
		}
		return wrapped, nil
	case "leveldb":
		store, err := leveldb.Open(flagDataDir)
		if err != nil {
			return nil, fmt.Errorf("opening leveldb store: %w", err)
		}
		wrapped, err := cached.New(store)
		if err != nil {
			return nil, err
		}
		return wrapped, nil
	case "memory":
		if memoryStore == nil {
			memoryStore = memory.New()
		}
		return memoryStore, nil
	default:
		return nil, fmt.Errorf("unsupported --store %q", flagStore)
	}
}

func parseHashAlgorithm() (hash.Algorithm, error) {
	switch flagHash {
	case "sha256":
		return hash.SHA256, nil
	case "keccak256":
		return hash.Keccak256, nil
	case "blake2b256":
		return hash.Blake2b256, nil
	default:
		return 0, fmt.Errorf("unsupported --hash %q", flagHash)
	}
}

func treeParams() (mst.Params, error) {
	alg, err := parseHashAlgorithm()
	if err != nil {
		return mst.Params{}, err
	}
	return mst.Params{
		Degree:               flagDegree,
		HashAlgorithm:        alg,
		KeyPrefix:            []byte(flagPrefix),
		VerifyOnLoad:         flagVerify,
		ReportDuplicateOnPut: true,
	}, nil
}

// headPath holds the last committed root hash between mstctl
// invocations, since each invocation is otherwise a fresh process.
func headPath() string {
	return filepath.Join(flagDataDir, flagPrefix+".head")
}

func readHead() (hash.Digest, error) {
	raw, err := ioutil.ReadFile(headPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	decoded, err := hex.DecodeString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("corrupt head file: %w", err)
	}
	return hash.Digest(decoded), nil
}

func writeHead(digest hash.Digest) error {
	if err := os.MkdirAll(flagDataDir, 0o755); err != nil {
		return err
	}
	return ioutil.WriteFile(headPath(), []byte(hex.EncodeToString(digest)), 0o644)
}

// openTree opens the tree at the last recorded head, or constructs an
// empty one if mstctl has never committed against this prefix.
func openTree(ctx context.Context, store kv.Store) (*mst.Tree, error) {
	params, err := treeParams()
	if err != nil {
		return nil, err
	}
	head, err := readHead()
	if err != nil {
		return nil, err
	}
	var opts []mst.Option
	if flagTrace {
		opts = append(opts, mst.WithTracer(trace.New()))
	}
	if head == nil {
		return mst.New(params, store, opts...)
	}
	return mst.Open(ctx, head, params, store, opts...)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func digestString(d hash.Digest) string {
	if len(d) == 0 {
		return "<nil>"
	}
	return hex.EncodeToString(d)
}
