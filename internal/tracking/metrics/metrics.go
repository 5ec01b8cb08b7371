package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamCallsTotal tracks calls to the upstream indexer APIs.
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossscan_upstream_calls_total",
			Help: "Total number of upstream API calls",
		},
		[]string{"endpoint", "operation"},
	)

	// UpstreamErrorsTotal tracks upstream API failures.
	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossscan_upstream_errors_total",
			Help: "Total number of upstream API errors",
		},
		[]string{"endpoint", "operation", "error_type"},
	)

	// UpstreamLatency tracks upstream API call latency.
	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crossscan_upstream_latency_seconds",
			Help:    "Upstream API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "operation"},
	)

	// TransfersResolved tracks lifecycle resolutions by simplified status.
	TransfersResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossscan_transfers_resolved_total",
			Help: "Total number of transfer lifecycle resolutions",
		},
		[]string{"status"},
	)

	// EnrichmentFailures tracks per-row enrichment failures that were
	// tolerated inside a batch.
	EnrichmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossscan_enrichment_failures_total",
			Help: "Total number of tolerated per-row enrichment failures",
		},
		[]string{"kind"},
	)

	// PollerCycles tracks pending-transfer poller iterations by outcome.
	PollerCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossscan_poller_cycles_total",
			Help: "Total number of poller cycles",
		},
		[]string{"result"},
	)

	// StatusCacheHits tracks Redis status cache hits and misses.
	StatusCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crossscan_status_cache_requests_total",
			Help: "Status cache requests by outcome",
		},
		[]string{"outcome"},
	)

	// DBConnectionPoolUsage tracks database pool utilization percent.
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crossscan_db_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
