// Package vocab builds the shared label vocabulary and projects sparse
// label-confidence maps onto dense vectors indexed by it.
package vocab

import (
	"math"
	"sort"

	"github.com/23skdu/tagmatch/internal/errors"
)

// LabelMap maps a label name to the confidence a tagger assigned it.
type LabelMap map[string]float64

// Vector is a dense feature vector; index i holds the confidence of the
// vocabulary label at index i.
type Vector []float64

// Vocabulary is an ordered set of distinct labels with a stable
// name to index mapping. It is never modified after Build returns.
type Vocabulary struct {
	labels []string
	index  map[string]int
}

// Build merges label maps into one vocabulary. Maps are visited in argument
// order and the keys of each map in lexicographic order; a label is assigned
// the next free index the first time it is seen.
func Build(maps ...LabelMap) *Vocabulary {
	v := &Vocabulary{index: make(map[string]int)}
	for _, m := range maps {
		for _, name := range sortedKeys(m) {
			if _, exists := v.index[name]; exists {
				continue
			}
			v.index[name] = len(v.labels)
			v.labels = append(v.labels, name)
		}
	}
	return v
}

// Len returns the number of labels, which is also the length of every
// vector produced against this vocabulary.
func (v *Vocabulary) Len() int {
	return len(v.labels)
}

// Labels returns a copy of the labels in index order.
func (v *Vocabulary) Labels() []string {
	out := make([]string, len(v.labels))
	copy(out, v.labels)
	return out
}

// Index returns the position of name.
func (v *Vocabulary) Index(name string) (int, bool) {
	i, ok := v.index[name]
	return i, ok
}

// Name returns the label at position i.
func (v *Vocabulary) Name(i int) string {
	return v.labels[i]
}

// Vectorize projects m onto the vocabulary. Absent labels are zero and labels
// unknown to the vocabulary are dropped.
func (v *Vocabulary) Vectorize(m LabelMap) Vector {
	out := make(Vector, len(v.labels))
	for i, name := range v.labels {
		if conf, ok := m[name]; ok {
			out[i] = conf
		}
	}
	return out
}

// Dropped returns, sorted, the labels of m that Vectorize would discard.
func (v *Vocabulary) Dropped(m LabelMap) []string {
	var dropped []string
	for _, name := range sortedKeys(m) {
		if _, ok := v.index[name]; !ok {
			dropped = append(dropped, name)
		}
	}
	return dropped
}

// Vectorize is the free-function form of (*Vocabulary).Vectorize.
func Vectorize(v *Vocabulary, m LabelMap) Vector {
	return v.Vectorize(m)
}

// Validate rejects empty label names and non-finite confidences.
func Validate(m LabelMap) error {
	for _, name := range sortedKeys(m) {
		conf := m[name]
		if name == "" || math.IsNaN(conf) || math.IsInf(conf, 0) {
			return errors.NewInvalidLabel("vocab.Validate", name, conf)
		}
	}
	return nil
}

func sortedKeys(m LabelMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
