package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsInitialization(t *testing.T) {
	assert.NotNil(t, LogEntriesTotal)
	assert.NotNil(t, VocabularySize)
	assert.NotNil(t, CorpusItems)
	assert.NotNil(t, DroppedLabelsTotal)
	assert.NotNil(t, SearchLatencySeconds)
	assert.NotNil(t, SearchErrorsTotal)
	assert.NotNil(t, SearchNoMatchTotal)
	assert.NotNil(t, BenchmarkMeanSeconds)
	assert.NotNil(t, CovarianceComputeSeconds)
	assert.NotNil(t, CovarianceSingularTotal)
	assert.NotNil(t, CacheHitsTotal)
	assert.NotNil(t, CacheMissesTotal)
	assert.NotNil(t, CacheEvictionsTotal)
	assert.NotNil(t, CacheSize)
}

func TestLabelledCounters(t *testing.T) {
	before := testutil.ToFloat64(SearchErrorsTotal.WithLabelValues("mahalanobis", "singular"))
	SearchErrorsTotal.WithLabelValues("mahalanobis", "singular").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(SearchErrorsTotal.WithLabelValues("mahalanobis", "singular")))

	CacheSize.WithLabelValues("test").Set(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(CacheSize.WithLabelValues("test")))
}
