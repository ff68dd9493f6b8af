// Package search finds the corpus item nearest a query vector by exact
// linear scan.
package search

import (
	"github.com/23skdu/tagmatch/internal/distance"
)

// Corpus is the read-only view FindNearest scans. Items are visited in index
// order, which fixes tie-breaking.
type Corpus interface {
	Len() int
	ItemID(i int) string
	Vector(i int) []float64
}

// Match is the outcome of one search. Found is false when the corpus was
// empty; ID and Distance are then meaningless.
type Match struct {
	ID       string
	Distance float64
	Found    bool
}

// FindNearest scans c and returns the item with the smallest distance to
// query under metric. On equal distances the earliest item wins. An empty
// corpus yields a Match with Found false and no error. The first metric error
// aborts the scan and is returned.
func FindNearest(query []float64, c Corpus, metric distance.Func) (Match, error) {
	var best Match
	for i := 0; i < c.Len(); i++ {
		d, err := metric(query, c.Vector(i))
		if err != nil {
			return Match{}, err
		}
		if !best.Found || d < best.Distance {
			best = Match{ID: c.ItemID(i), Distance: d, Found: true}
		}
	}
	return best, nil
}
