package metrics

import "time"

// NoopCollector discards every metric. Grounded on the ledger's
// metrics.NoopCollector, used wherever a caller wires an MST without a
// Prometheus registry (tests, one-off CLI invocations).
type NoopCollector struct{}

func (NoopCollector) SetDuration(time.Duration) {}
func (NoopCollector) GetDuration(time.Duration) {}
func (NoopCollector) CommitDuration(time.Duration) {}
func (NoopCollector) NodesWritten(int) {}
func (NoopCollector) NodesLoaded(int) {}
func (NoopCollector) CacheHit() {}
func (NoopCollector) CacheMiss() {}
func (NoopCollector) TreeSize(int64) {}

var _ Collector = NoopCollector{}
