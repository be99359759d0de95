// Package profiling is the process-wide profiling aggregator: one of
// exactly two pieces of permitted module-level state (the other being
// the component logger registry in internal/log). It is grounded on the
// aggregator pattern from original_source's profiling module, re-expressed
// with github.com/prometheus/client_golang the way the Go ecosystem
// idiomatically exposes internal timings rather than a hand-rolled
// counter struct.
package profiling

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Aggregator owns a private Prometheus registry so its metrics can be
// registered at indexer construction and cleanly unregistered at
// shutdown, rather than leaking into prometheus.DefaultRegisterer across
// repeated construction (as tests that build multiple indexers would).
type Aggregator struct {
	registry *prometheus.Registry

	AddBlockLatency        prometheus.Histogram
	ReorgDepth             prometheus.Histogram
	MaterializeLedgerLatency prometheus.Histogram
	StoreBatchLatency       prometheus.Histogram
	BlocksIngested          prometheus.Counter
	ReorgCount              prometheus.Counter
}

// New creates and registers the aggregator's metrics against a fresh
// registry.
func New() *Aggregator {
	a := &Aggregator{
		registry: prometheus.NewRegistry(),
		AddBlockLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "indexer_add_block_latency_seconds",
			Help:    "Latency of witness.Tree.AddBlock calls.",
			Buckets: prometheus.DefBuckets,
		}),
		ReorgDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "indexer_reorg_depth_blocks",
			Help:    "Number of blocks reverted plus replayed per reorg.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 500, 1000},
		}),
		MaterializeLedgerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "indexer_materialize_ledger_latency_seconds",
			Help:    "Latency of witness.Tree.MaterializeLedger calls.",
			Buckets: prometheus.DefBuckets,
		}),
		StoreBatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "indexer_store_batch_latency_seconds",
			Help:    "Latency of committing a storage.Batch.",
			Buckets: prometheus.DefBuckets,
		}),
		BlocksIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "indexer_blocks_ingested_total",
			Help: "Total precomputed blocks successfully added to the witness tree.",
		}),
		ReorgCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "indexer_reorg_total",
			Help: "Total number of best-tip reorgs.",
		}),
	}
	a.registry.MustRegister(
		a.AddBlockLatency, a.ReorgDepth, a.MaterializeLedgerLatency,
		a.StoreBatchLatency, a.BlocksIngested, a.ReorgCount,
	)
	return a
}

// Registry exposes the private registry so a metrics HTTP handler (owned
// by the caller, outside this indexer's scope) can gather from it.
func (a *Aggregator) Registry() *prometheus.Registry { return a.registry }

// Close unregisters every collector, for indexers that come and go
// within one process (tests, replay-then-serve restarts).
func (a *Aggregator) Close() {
	a.registry.Unregister(a.AddBlockLatency)
	a.registry.Unregister(a.ReorgDepth)
	a.registry.Unregister(a.MaterializeLedgerLatency)
	a.registry.Unregister(a.StoreBatchLatency)
	a.registry.Unregister(a.BlocksIngested)
	a.registry.Unregister(a.ReorgCount)
}

// Timer returns a function that observes the elapsed time since it was
// created into h when called, for defer-friendly call sites: `defer
// a.Timer(a.AddBlockLatency)()`.
func (a *Aggregator) Timer(h prometheus.Histogram) func() {
	start := time.Now()
	return func() { h.Observe(time.Since(start).Seconds()) }
}
