package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LogEntriesTotal counts log entries by level
	LogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmatch_log_entries_total",
			Help: "Total number of log entries by level",
		},
		[]string{"level"},
	)

	// VocabularySize is the number of labels in the most recently built vocabulary
	VocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tagmatch_vocabulary_size",
			Help: "Number of distinct labels in the current vocabulary",
		},
	)

	// CorpusItems is the number of vectors in the most recently built corpus
	CorpusItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tagmatch_corpus_items",
			Help: "Number of items in the current corpus",
		},
	)

	// DroppedLabelsTotal counts query labels discarded by projection onto the vocabulary
	DroppedLabelsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagmatch_dropped_labels_total",
			Help: "Total number of labels dropped because they are not in the vocabulary",
		},
	)
)
