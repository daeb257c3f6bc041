package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Document store and search Prometheus metrics.
var (
	DocumentsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mathdocs",
			Name:      "documents_total",
			Help:      "Number of documents held in the store",
		},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mathdocs",
			Name:      "search_duration_seconds",
			Help:      "Similarity search duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mathdocs",
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)
)

var registerStore sync.Once

// RegisterStoreMetrics registers document and search metrics. Safe to call more than once.
func RegisterStoreMetrics() {
	registerStore.Do(func() {
		prometheus.MustRegister(DocumentsTotal)
		prometheus.MustRegister(SearchDuration)
		prometheus.MustRegister(SearchResults)
	})
}
