// Package operation holds low-level key-building helpers shared by the
// kv store adapters, grounded on the ledger's storage/badger/operation
// prefix convention.
package operation

// MakeKey concatenates a tree's key_prefix with a node's content digest
// to form the opaque key every kv.Store adapter is handed.
func MakeKey(keyPrefix, digest []byte) []byte {
	key := make([]byte, 0, len(keyPrefix)+len(digest))
	key = append(key, keyPrefix...)
	return append(key, digest...)
}
