package distance

import (
	"strings"

	"github.com/23skdu/tagmatch/internal/errors"
	"gonum.org/v1/gonum/mat"
)

// Kind selects one of the supported metrics.
type Kind int

const (
	KindEuclidean Kind = iota
	KindManhattan
	KindChebyshev
	KindMahalanobis
)

var kindNames = [...]string{
	KindEuclidean:   "euclidean",
	KindManhattan:   "manhattan",
	KindChebyshev:   "chebyshev",
	KindMahalanobis: "mahalanobis",
}

// AllKinds returns every supported metric in declaration order.
func AllKinds() []Kind {
	return []Kind{KindEuclidean, KindManhattan, KindChebyshev, KindMahalanobis}
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return "unknown"
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindEuclidean && k <= KindMahalanobis
}

// ParseKind maps a case-insensitive metric name to its Kind.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, kn := range kindNames {
		if kn == n {
			return Kind(k), nil
		}
	}
	return 0, errors.NewUnknownMetric("distance.ParseKind", name)
}

// ParseKinds parses a comma separated list of metric names.
func ParseKinds(list string) ([]Kind, error) {
	var kinds []Kind
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Compute dispatches to the metric selected by kind. corpus is only read by
// KindMahalanobis.
func Compute(kind Kind, a, b []float64, corpus [][]float64) (float64, error) {
	switch kind {
	case KindEuclidean:
		return Euclidean(a, b)
	case KindManhattan:
		return Manhattan(a, b)
	case KindChebyshev:
		return Chebyshev(a, b)
	case KindMahalanobis:
		return Mahalanobis(a, b, corpus)
	default:
		return 0, errors.NewUnknownMetric("distance.Compute", kind.String())
	}
}

// InverseSource supplies inverse covariance matrices for a keyed vector set.
// *covariance.Estimator implements it.
type InverseSource interface {
	InverseFor(key uint64, vectors [][]float64) (*mat.Dense, error)
}

// Bind returns a Func for kind over a fixed corpus. For KindMahalanobis the
// inverse covariance comes from src under key; with a nil src it is
// recomputed on every call, as Mahalanobis does.
func Bind(kind Kind, corpus [][]float64, key uint64, src InverseSource) (Func, error) {
	switch kind {
	case KindEuclidean:
		return Euclidean, nil
	case KindManhattan:
		return Manhattan, nil
	case KindChebyshev:
		return Chebyshev, nil
	case KindMahalanobis:
		if src == nil {
			return func(a, b []float64) (float64, error) {
				return Mahalanobis(a, b, corpus)
			}, nil
		}
		return func(a, b []float64) (float64, error) {
			if len(a) != len(b) {
				return 0, errors.NewDimensionMismatch("distance.Mahalanobis", len(a), len(b))
			}
			if len(a) == 0 {
				return 0, nil
			}
			inv, err := src.InverseFor(key, corpus)
			if err != nil {
				return 0, err
			}
			return MahalanobisInverse(a, b, inv)
		}, nil
	default:
		return nil, errors.NewUnknownMetric("distance.Bind", kind.String())
	}
}
