package covariance

import (
	"time"

	"github.com/23skdu/tagmatch/internal/cache"
	"github.com/23skdu/tagmatch/internal/errors"
	"github.com/23skdu/tagmatch/internal/metrics"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// Options configures an Estimator.
type Options struct {
	CacheCapacity  int
	CacheTTL       time.Duration
	ConditionLimit float64
}

// DefaultOptions returns the options used by the driver when nothing is set.
func DefaultOptions() Options {
	return Options{
		CacheCapacity:  16,
		CacheTTL:       0,
		ConditionLimit: DefaultConditionLimit,
	}
}

// Estimator caches inverse covariance matrices by caller-supplied key.
//
// The key must identify the exact vector set: callers are responsible for
// choosing a new key whenever the vectors change. corpus.Corpus fingerprints
// satisfy this because a corpus is immutable and each one gets a fresh id.
// Failures are never cached.
type Estimator struct {
	inverses       *cache.LRU[*mat.Dense]
	conditionLimit float64
	logger         zerolog.Logger
}

// NewEstimator creates an Estimator.
//
//nolint:gocritic // Logger passed by value for simplicity
func NewEstimator(logger zerolog.Logger, opts Options) *Estimator {
	if opts.ConditionLimit <= 0 {
		opts.ConditionLimit = DefaultConditionLimit
	}
	return &Estimator{
		inverses:       cache.NewLRU[*mat.Dense](opts.CacheCapacity, opts.CacheTTL, "inverse_covariance"),
		conditionLimit: opts.ConditionLimit,
		logger:         logger.With().Str("component", "covariance").Logger(),
	}
}

// InverseFor returns the inverse covariance of vectors, computing and caching
// it under key on a miss. The returned matrix is shared and must not be
// modified.
func (e *Estimator) InverseFor(key uint64, vectors [][]float64) (*mat.Dense, error) {
	if inv, ok := e.inverses.Get(key); ok {
		return inv, nil
	}

	start := time.Now()
	inv, err := InverseCovariance(vectors, e.conditionLimit)
	metrics.CovarianceComputeSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.IsSingularCovariance(err) {
			metrics.CovarianceSingularTotal.Inc()
		}
		e.logger.Debug().
			Uint64("key", key).
			Int("vectors", len(vectors)).
			Err(err).
			Msg("inverse covariance failed")
		return nil, err
	}

	e.inverses.Put(key, inv)
	e.logger.Debug().
		Uint64("key", key).
		Int("vectors", len(vectors)).
		Dur("duration", time.Since(start)).
		Msg("inverse covariance cached")
	return inv, nil
}

// Reset drops every cached inverse.
func (e *Estimator) Reset() {
	e.inverses.Clear()
}
