// Package benchmark times each metric's nearest-neighbour pass.
package benchmark

import (
	"context"
	"time"

	"github.com/23skdu/tagmatch/internal/distance"
	"github.com/23skdu/tagmatch/internal/metrics"
	"github.com/23skdu/tagmatch/internal/search"
)

// Timing summarises repeated searches under one metric.
type Timing struct {
	Kind       distance.Kind
	Iterations int
	Total      time.Duration
	Mean       time.Duration
	Max        time.Duration
	// Match and Err are from the last completed iteration.
	Match search.Match
	Err   error
}

// Run searches s for query iterations times per kind, one kind after the
// other so timings do not interfere. A failing kind stops after its first
// error; the remaining kinds still run.
func Run(ctx context.Context, sr *search.Searcher, query []float64, s search.Space, kinds []distance.Kind, iterations int) ([]Timing, error) {
	if iterations < 1 {
		iterations = 1
	}

	timings := make([]Timing, 0, len(kinds))
	for _, kind := range kinds {
		t := Timing{Kind: kind}
		for i := 0; i < iterations; i++ {
			if err := ctx.Err(); err != nil {
				return timings, err
			}
			start := time.Now()
			match, err := sr.Nearest(ctx, query, s, kind)
			d := time.Since(start)

			t.Iterations++
			t.Total += d
			if d > t.Max {
				t.Max = d
			}
			t.Match, t.Err = match, err
			if err != nil {
				break
			}
		}
		t.Mean = t.Total / time.Duration(t.Iterations)
		metrics.BenchmarkMeanSeconds.WithLabelValues(kind.String()).Set(t.Mean.Seconds())
		timings = append(timings, t)
	}
	return timings, nil
}
