package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Search-Related Metrics
// =============================================================================

var (
	// SearchLatencySeconds measures one nearest-neighbour pass per metric
	SearchLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tagmatch_search_latency_seconds",
			Help:    "Latency of nearest-neighbour searches by metric",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"metric"},
	)

	// SearchErrorsTotal counts failed searches by metric and error cause
	SearchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmatch_search_errors_total",
			Help: "Total number of failed searches by metric and cause",
		},
		[]string{"metric", "cause"},
	)

	// SearchNoMatchTotal counts searches over an empty corpus
	SearchNoMatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmatch_search_no_match_total",
			Help: "Total number of searches that returned no match",
		},
		[]string{"metric"},
	)

	// BenchmarkMeanSeconds is the mean duration of the last benchmark run per metric
	BenchmarkMeanSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tagmatch_benchmark_mean_seconds",
			Help: "Mean search duration observed by the last benchmark run",
		},
		[]string{"metric"},
	)
)
