// Package distance implements the dissimilarity measures used to compare
// feature vectors.
package distance

import (
	"math"

	"github.com/23skdu/tagmatch/internal/errors"
)

// Func computes a non-negative dissimilarity between two vectors of equal
// length.
type Func func(a, b []float64) (float64, error)

// Euclidean returns the L2 distance between a and b.
func Euclidean(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.NewDimensionMismatch("distance.Euclidean", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Manhattan returns the L1 distance between a and b.
func Manhattan(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.NewDimensionMismatch("distance.Manhattan", len(a), len(b))
	}
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum, nil
}

// Chebyshev returns the largest absolute component difference between a and
// b, or 0 for zero-length vectors.
func Chebyshev(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.NewDimensionMismatch("distance.Chebyshev", len(a), len(b))
	}
	var max float64
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > max {
			max = d
		}
	}
	return max, nil
}
