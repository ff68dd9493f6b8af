package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CovarianceComputeSeconds measures covariance estimation plus inversion
	CovarianceComputeSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tagmatch_covariance_compute_seconds",
			Help:    "Time spent estimating and inverting covariance matrices",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CovarianceSingularTotal counts covariance matrices rejected as singular
	CovarianceSingularTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagmatch_covariance_singular_total",
			Help: "Total number of singular covariance matrices encountered",
		},
	)

	// CacheHitsTotal counts cache hits by cache name
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmatch_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	// CacheMissesTotal counts cache misses by cache name
	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmatch_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// CacheEvictionsTotal counts LRU evictions by cache name
	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmatch_cache_evictions_total",
			Help: "Total number of cache evictions",
		},
		[]string{"cache"},
	)

	// CacheSize is the current number of entries by cache name
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tagmatch_cache_size",
			Help: "Current number of cache entries",
		},
		[]string{"cache"},
	)
)
