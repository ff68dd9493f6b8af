package distance

import (
	"math"

	"github.com/23skdu/tagmatch/internal/covariance"
	"github.com/23skdu/tagmatch/internal/errors"
	"gonum.org/v1/gonum/mat"
)

// Mahalanobis returns sqrt((a-b)ᵀ Σ⁻¹ (a-b)) where Σ is the sample
// covariance of corpus. Σ is estimated and inverted on every call; use
// MahalanobisInverse or Bind with an InverseSource to reuse it.
func Mahalanobis(a, b []float64, corpus [][]float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.NewDimensionMismatch("distance.Mahalanobis", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	cov, err := covariance.Covariance(corpus)
	if err != nil {
		return 0, err
	}
	if dim := cov.SymmetricDim(); dim != len(a) {
		return 0, errors.NewDimensionMismatch("distance.Mahalanobis", dim, len(a))
	}
	inv, err := covariance.Invert(cov)
	if err != nil {
		return 0, err
	}
	return MahalanobisInverse(a, b, inv)
}

// MahalanobisInverse is Mahalanobis with a precomputed inverse covariance.
// Rounding can push the quadratic form slightly below zero when a and b are
// (nearly) equal; it is clamped to 0 before the square root.
func MahalanobisInverse(a, b []float64, inv mat.Matrix) (float64, error) {
	const op = "distance.Mahalanobis"
	if len(a) != len(b) {
		return 0, errors.NewDimensionMismatch(op, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	if r, _ := inv.Dims(); r != len(a) {
		return 0, errors.NewDimensionMismatch(op, r, len(a))
	}

	diff := make([]float64, len(a))
	for i := range a {
		diff[i] = a[i] - b[i]
	}
	d := mat.NewVecDense(len(diff), diff)
	sq := mat.Inner(d, inv, d)
	if sq < 0 {
		sq = 0
	}
	return math.Sqrt(sq), nil
}
