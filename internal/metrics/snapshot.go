package metrics

import "github.com/prometheus/client_golang/prometheus"

// Snapshot Prometheus metrics.
var (
	SnapshotRebuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "citedex",
			Name:      "snapshot_rebuilds_total",
			Help:      "Total number of library snapshot rebuilds",
		},
		[]string{"status"}, // "ok" / "error"
	)

	SnapshotRebuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "citedex",
			Name:      "snapshot_rebuild_duration_seconds",
			Help:      "Library snapshot rebuild duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	SnapshotItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "citedex",
			Name:      "snapshot_items",
			Help:      "Number of items in the current library snapshot",
		},
	)

	BibliographyCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "citedex",
			Name:      "bibliography_cache_total",
			Help:      "Formatted bibliography cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var snapMetricsRegistered bool

// RegisterSnapshotMetrics registers Prometheus snapshot metrics. Must be called once from main.
func RegisterSnapshotMetrics() {
	if snapMetricsRegistered {
		return
	}
	prometheus.MustRegister(SnapshotRebuildsTotal)
	prometheus.MustRegister(SnapshotRebuildDuration)
	prometheus.MustRegister(SnapshotItems)
	prometheus.MustRegister(BibliographyCacheTotal)
	snapMetricsRegistered = true
}
