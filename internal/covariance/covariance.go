// Package covariance estimates the sample covariance of a set of feature
// vectors and inverts it for Mahalanobis distance.
package covariance

import (
	"math"

	"github.com/23skdu/tagmatch/internal/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultConditionLimit is the largest 1-norm condition number Invert
// accepts. Anything above it is reported as singular.
const DefaultConditionLimit = 1e12

// Covariance returns the unbiased (N-1) sample covariance of vectors, computed
// column-wise. A single vector yields the zero matrix.
func Covariance(vectors [][]float64) (*mat.SymDense, error) {
	data, err := toDense("covariance.Covariance", vectors)
	if err != nil {
		return nil, err
	}

	rows, dim := data.Dims()
	cov := mat.NewSymDense(dim, nil)
	if rows < 2 {
		return cov, nil
	}
	stat.CovarianceMatrix(cov, data, nil)
	return cov, nil
}

// Invert returns the inverse of m, rejecting singular and near-singular
// matrices with ErrSingularCovariance.
func Invert(m mat.Matrix) (*mat.Dense, error) {
	return InvertWithLimit(m, DefaultConditionLimit)
}

// InvertWithLimit is Invert with an explicit condition number ceiling.
func InvertWithLimit(m mat.Matrix, limit float64) (*mat.Dense, error) {
	const op = "covariance.Invert"

	r, c := m.Dims()
	if r != c {
		return nil, errors.NewDimensionMismatch(op, r, c)
	}
	if r == 0 {
		return nil, errors.NewEmptySample(op, "zero-dimensional matrix")
	}

	cond := mat.Cond(m, 1)
	if math.IsNaN(cond) || math.IsInf(cond, 0) || cond > limit {
		return nil, errors.NewSingularCovariance(op, cond)
	}

	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		if ce, ok := err.(mat.Condition); ok {
			return nil, errors.NewSingularCovariance(op, float64(ce))
		}
		return nil, errors.WrapComputationError(err, op, "inverse failed")
	}
	return &inv, nil
}

// InverseCovariance estimates the covariance of vectors and inverts it.
func InverseCovariance(vectors [][]float64, limit float64) (*mat.Dense, error) {
	cov, err := Covariance(vectors)
	if err != nil {
		return nil, err
	}
	return InvertWithLimit(cov, limit)
}

// toDense copies vectors into a rows x dim matrix after checking that there
// is at least one vector, at least one dimension and no ragged rows.
func toDense(op string, vectors [][]float64) (*mat.Dense, error) {
	if len(vectors) == 0 {
		return nil, errors.NewEmptySample(op, "no vectors")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.NewEmptySample(op, "zero-length vectors")
	}

	data := mat.NewDense(len(vectors), dim, nil)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, errors.NewDimensionMismatch(op, dim, len(v)).WithContext("row", i)
		}
		data.SetRow(i, v)
	}
	return data, nil
}
