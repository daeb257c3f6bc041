package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Extraction Prometheus metrics.
var (
	ExtractionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mathdocs",
			Name:      "extraction_requests_total",
			Help:      "Total number of text extraction requests",
		},
		[]string{"source", "status"},
	)

	ExtractionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mathdocs",
			Name:      "extraction_duration_seconds",
			Help:      "Text extraction duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	ExtractionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mathdocs",
			Name:      "extraction_cache_total",
			Help:      "Extraction cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerExtraction sync.Once

// RegisterExtractionMetrics registers extraction metrics. Safe to call more than once.
func RegisterExtractionMetrics() {
	registerExtraction.Do(func() {
		prometheus.MustRegister(ExtractionRequestsTotal)
		prometheus.MustRegister(ExtractionDuration)
		prometheus.MustRegister(ExtractionCacheTotal)
	})
}
