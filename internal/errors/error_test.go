package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredError_Error(t *testing.T) {
	err := New(ErrorTypeValidation, "test_op", "test message")
	assert.Equal(t, "[validation] test_op: test message", err.Error())

	cause := errors.New("underlying error")
	err = Wrap(cause, ErrorTypeComputation, "invert", "failed to invert")
	assert.Contains(t, err.Error(), "[computation] invert: failed to invert")
	assert.Contains(t, err.Error(), "underlying error")
	assert.Equal(t, cause, err.Unwrap())
}

func TestStructuredError_WithContext(t *testing.T) {
	err := New(ErrorTypeValidation, "test_op", "test message")
	err = err.WithContext("dim", 3).WithContext("metric", "euclidean")

	assert.Equal(t, 3, err.Context["dim"])
	assert.Equal(t, "euclidean", err.Context["metric"])
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInput, "op", "msg"))
}

func TestDimensionMismatch(t *testing.T) {
	err := NewDimensionMismatch("euclidean", 3, 2)

	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.True(t, IsDimensionMismatch(err))
	assert.False(t, IsSingularCovariance(err))
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, 3, err.Context["expected"])
	assert.Equal(t, 2, err.Context["actual"])
	assert.Contains(t, err.Error(), "expected length 3, got 2")
}

func TestSingularCovarianceSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("search mahalanobis: %w", NewSingularCovariance("invert", 1e18))

	assert.True(t, IsSingularCovariance(err))

	var se *StructuredError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, ErrorTypeComputation, se.Type)
	assert.Equal(t, 1e18, se.Context["condition"])
}

func TestSentinelConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"empty sample", NewEmptySample("covariance", "no vectors"), ErrEmptySample},
		{"invalid label", NewInvalidLabel("validate", "cat", 0), ErrInvalidLabel},
		{"duplicate item", NewDuplicateItem("corpus", "a"), ErrDuplicateItem},
		{"unknown item", NewUnknownItem("extract", "a"), ErrUnknownItem},
		{"unknown metric", NewUnknownMetric("parse", "cosine"), ErrUnknownMetric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.want)
		})
	}
}

func TestStackTraceCapture(t *testing.T) {
	err := New(ErrorTypeValidation, "test", "message")
	assert.Greater(t, len(err.Stack), 0)
}
