package metrics

import "github.com/prometheus/client_golang/prometheus"

// Indexing Prometheus metrics.
var (
	DocumentsIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchindex",
			Name:      "documents_indexed_total",
			Help:      "Total number of documents written via bulk indexing",
		},
		[]string{"index"},
	)

	DocumentsDeletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchindex",
			Name:      "documents_deleted_total",
			Help:      "Total number of documents removed via bulk deletes",
		},
		[]string{"index"},
	)

	BulkFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchindex",
			Name:      "bulk_failures_total",
			Help:      "Total number of bulk calls that reported item-level errors",
		},
		[]string{"index"},
	)

	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchindex",
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op", "status"},
	)
)

var indexingRegistered bool

// RegisterIndexingMetrics registers indexing metrics. Must be called once from main.
func RegisterIndexingMetrics() {
	if indexingRegistered {
		return
	}
	prometheus.MustRegister(DocumentsIndexedTotal)
	prometheus.MustRegister(DocumentsDeletedTotal)
	prometheus.MustRegister(BulkFailuresTotal)
	prometheus.MustRegister(EngineRequestDuration)
	indexingRegistered = true
}
