package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/atomic"
)

const namespace = "jdchain"
const subsystem = "mst"

// PrometheusCollector is the production Collector, grounded on the
// ledger's module/metrics package use of promauto-registered
// histograms and gauges.
type PrometheusCollector struct {
	setDuration    prometheus.Histogram
	getDuration    prometheus.Histogram
	commitDuration prometheus.Histogram
	nodesWritten   prometheus.Counter
	nodesLoaded    prometheus.Counter
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	treeSize       prometheus.Gauge

	// size is mirrored in a lock-free counter so concurrent metrics
	// scrapes never contend with the single writer's Set/Commit path.
	size atomic.Int64
}

// NewPrometheusCollector registers MST metrics on reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)
	c := &PrometheusCollector{
		setDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "set_duration_seconds", Help: "duration of Set calls",
			Buckets: prometheus.DefBuckets,
		}),
		getDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "get_duration_seconds", Help: "duration of Get calls",
			Buckets: prometheus.DefBuckets,
		}),
		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "commit_duration_seconds", Help: "duration of Commit calls",
			Buckets: prometheus.DefBuckets,
		}),
		nodesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "nodes_written_total", Help: "node blobs written to storage",
		}),
		nodesLoaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "nodes_loaded_total", Help: "node blobs fetched from storage",
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "cache_hits_total", Help: "lazy-load slots already resolved in memory",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "cache_misses_total", Help: "lazy-load slots requiring a storage read",
		}),
		treeSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "tree_size", Help: "current populated-id count",
		}),
	}
	return c
}

func (c *PrometheusCollector) SetDuration(d time.Duration)    { c.setDuration.Observe(d.Seconds()) }
func (c *PrometheusCollector) GetDuration(d time.Duration)    { c.getDuration.Observe(d.Seconds()) }
func (c *PrometheusCollector) CommitDuration(d time.Duration) { c.commitDuration.Observe(d.Seconds()) }
func (c *PrometheusCollector) NodesWritten(n int)             { c.nodesWritten.Add(float64(n)) }
func (c *PrometheusCollector) NodesLoaded(n int)              { c.nodesLoaded.Add(float64(n)) }
func (c *PrometheusCollector) CacheHit()                      { c.cacheHits.Inc() }
func (c *PrometheusCollector) CacheMiss()                     { c.cacheMisses.Inc() }

func (c *PrometheusCollector) TreeSize(count int64) {
	c.size.Store(count)
	c.treeSize.Set(float64(count))
}

var _ Collector = (*PrometheusCollector)(nil)
