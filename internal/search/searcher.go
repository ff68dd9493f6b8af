package search

import (
	"context"
	"time"

	"github.com/23skdu/tagmatch/internal/distance"
	"github.com/23skdu/tagmatch/internal/errors"
	"github.com/23skdu/tagmatch/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Space is a corpus that can also hand out all of its vectors and a key
// identifying them, which Mahalanobis needs. *corpus.Corpus implements it.
type Space interface {
	Corpus
	Vectors() [][]float64
	Fingerprint() uint64
}

// Result is the outcome of one metric's search inside NearestAll.
type Result struct {
	Kind    distance.Kind
	Match   Match
	Err     error
	Elapsed time.Duration
}

// Options configures a Searcher.
type Options struct {
	// Parallel evaluates the metrics of NearestAll concurrently.
	Parallel bool
	// Inverses caches inverse covariance matrices for Mahalanobis. When nil
	// they are recomputed for every candidate.
	Inverses distance.InverseSource
}

// Searcher runs nearest-neighbour searches per metric kind.
type Searcher struct {
	opts   Options
	logger zerolog.Logger
}

// NewSearcher creates a Searcher.
//
//nolint:gocritic // Logger passed by value for simplicity
func NewSearcher(logger zerolog.Logger, opts Options) *Searcher {
	return &Searcher{
		opts:   opts,
		logger: logger.With().Str("component", "search").Logger(),
	}
}

// Nearest returns the item of s nearest query under kind.
func (sr *Searcher) Nearest(ctx context.Context, query []float64, s Space, kind distance.Kind) (Match, error) {
	if err := ctx.Err(); err != nil {
		return Match{}, err
	}

	metric, err := distance.Bind(kind, s.Vectors(), s.Fingerprint(), sr.opts.Inverses)
	if err != nil {
		return Match{}, err
	}

	start := time.Now()
	match, err := FindNearest(query, s, metric)
	elapsed := time.Since(start)
	metrics.SearchLatencySeconds.WithLabelValues(kind.String()).Observe(elapsed.Seconds())

	if err != nil {
		metrics.SearchErrorsTotal.WithLabelValues(kind.String(), errorCause(err)).Inc()
		return Match{}, err
	}
	if !match.Found {
		metrics.SearchNoMatchTotal.WithLabelValues(kind.String()).Inc()
	}

	sr.logger.Debug().
		Str("metric", kind.String()).
		Str("item", match.ID).
		Float64("distance", match.Distance).
		Bool("found", match.Found).
		Dur("duration", elapsed).
		Msg("search complete")
	return match, nil
}

// NearestAll runs Nearest once per kind and returns one Result per kind in
// the same order. A failing kind records its error in its Result and never
// affects the others. The returned error is non-nil only when ctx ends.
func (sr *Searcher) NearestAll(ctx context.Context, query []float64, s Space, kinds []distance.Kind) ([]Result, error) {
	results := make([]Result, len(kinds))

	run := func(i int) {
		start := time.Now()
		match, err := sr.Nearest(ctx, query, s, kinds[i])
		results[i] = Result{Kind: kinds[i], Match: match, Err: err, Elapsed: time.Since(start)}
		if err != nil && ctx.Err() == nil {
			sr.logger.Warn().
				Str("metric", kinds[i].String()).
				Err(err).
				Msg("metric search failed")
		}
	}

	if !sr.opts.Parallel {
		for i := range kinds {
			run(i)
		}
		return results, ctx.Err()
	}

	g, gCtx := errgroup.WithContext(ctx)
	for i := range kinds {
		g.Go(func() error {
			if gCtx.Err() != nil {
				results[i] = Result{Kind: kinds[i], Err: gCtx.Err()}
				return nil
			}
			run(i)
			// Metric failures stay in their Result.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}

func errorCause(err error) string {
	switch {
	case errors.IsDimensionMismatch(err):
		return "dimension_mismatch"
	case errors.IsSingularCovariance(err):
		return "singular_covariance"
	default:
		return "other"
	}
}
