package benchmark

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/23skdu/tagmatch/internal/corpus"
	"github.com/23skdu/tagmatch/internal/covariance"
	"github.com/23skdu/tagmatch/internal/distance"
	"github.com/23skdu/tagmatch/internal/errors"
	"github.com/23skdu/tagmatch/internal/logging"
	"github.com/23skdu/tagmatch/internal/search"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomCorpus(tb testing.TB, n, dim int) *corpus.Corpus {
	tb.Helper()
	rng := rand.New(rand.NewSource(7))
	ids := make([]string, n)
	vectors := make([][]float64, n)
	for i := range vectors {
		ids[i] = fmt.Sprintf("img_%d", i)
		vectors[i] = make([]float64, dim)
		for j := range vectors[i] {
			vectors[i][j] = rng.Float64()
		}
	}
	c, err := corpus.FromVectors(memory.NewGoAllocator(), ids, vectors)
	require.NoError(tb, err)
	tb.Cleanup(c.Release)
	return c
}

func TestRun(t *testing.T) {
	c := randomCorpus(t, 50, 4)
	sr := search.NewSearcher(logging.DiscardLogger(), search.Options{})

	timings, err := Run(context.Background(), sr, c.Vector(3), c, distance.AllKinds(), 3)
	require.NoError(t, err)
	require.Len(t, timings, 4)

	for _, tm := range timings {
		require.NoError(t, tm.Err, tm.Kind.String())
		assert.Equal(t, 3, tm.Iterations)
		assert.Equal(t, "img_3", tm.Match.ID)
		assert.LessOrEqual(t, tm.Mean, tm.Max)
		assert.LessOrEqual(t, tm.Max, tm.Total)
	}
}

func TestRun_FailingMetricStopsEarly(t *testing.T) {
	c := randomCorpus(t, 1, 3)
	sr := search.NewSearcher(logging.DiscardLogger(), search.Options{})

	timings, err := Run(context.Background(), sr, []float64{0, 0, 0}, c,
		[]distance.Kind{distance.KindMahalanobis, distance.KindChebyshev}, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, timings[0].Iterations)
	assert.True(t, errors.IsSingularCovariance(timings[0].Err))
	assert.Equal(t, 5, timings[1].Iterations)
	assert.NoError(t, timings[1].Err)
}

func TestRun_Cancelled(t *testing.T) {
	c := randomCorpus(t, 5, 2)
	sr := search.NewSearcher(logging.DiscardLogger(), search.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	timings, err := Run(ctx, sr, []float64{0, 0}, c, distance.AllKinds(), 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, timings)
}

// BenchmarkNearest measures one search pass per metric, with and without the
// inverse covariance cache.
func BenchmarkNearest(b *testing.B) {
	sizes := []int{100, 1000}
	const dim = 16

	for _, size := range sizes {
		c := randomCorpus(b, size, dim)
		query := c.Vector(0)
		cached := search.NewSearcher(logging.DiscardLogger(), search.Options{
			Inverses: covariance.NewEstimator(logging.DiscardLogger(), covariance.DefaultOptions()),
		})

		for _, kind := range distance.AllKinds() {
			b.Run(fmt.Sprintf("n=%d/%s", size, kind), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := cached.Nearest(context.Background(), query, c, kind); err != nil {
						b.Fatalf("search failed: %v", err)
					}
				}
			})
		}
	}
}
