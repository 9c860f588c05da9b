// Package metrics defines the MST's Collector interface, grounded on
// the ledger's module.Metrics interface + promauto-registered
// collector pattern (module/metrics/execution.go), scoped down to the
// operations the tree itself performs.
package metrics

import "time"

// Collector reports operational metrics for a single MST instance.
// Implementations must be safe for concurrent use by metrics readers
// even though the tree itself is single-writer.
type Collector interface {
	// SetDuration reports the wall-clock time taken by one Set call.
	SetDuration(d time.Duration)
	// GetDuration reports the wall-clock time taken by one Get call.
	GetDuration(d time.Duration)
	// CommitDuration reports the wall-clock time taken by one Commit call.
	CommitDuration(d time.Duration)
	// NodesWritten reports how many node blobs a Commit call wrote to storage.
	NodesWritten(n int)
	// NodesLoaded reports how many node blobs were fetched from storage
	// to resolve lazy children/values.
	NodesLoaded(n int)
	// CacheHit reports a lazy-load slot that was already resolved in memory.
	CacheHit()
	// CacheMiss reports a lazy-load slot that required a storage read.
	CacheMiss()
	// TreeSize reports the tree's current populated-id count.
	TreeSize(count int64)
}
