package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// Error types for different categories of failures
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeComputation   ErrorType = "computation"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeInput         ErrorType = "input"
)

// Sentinel causes. Match them with errors.Is on any error returned by the
// library; StructuredError unwraps to them.
var (
	ErrDimensionMismatch  = stderrors.New("dimension mismatch")
	ErrSingularCovariance = stderrors.New("singular covariance matrix")
	ErrEmptySample        = stderrors.New("empty sample")
	ErrInvalidLabel       = stderrors.New("invalid label")
	ErrDuplicateItem      = stderrors.New("duplicate item")
	ErrUnknownItem        = stderrors.New("unknown item")
	ErrUnknownMetric      = stderrors.New("unknown metric")
)

// StructuredError provides rich error context
type StructuredError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
	Context   map[string]interface{}
	Stack     []uintptr
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Operation, e.Message)
}

// Unwrap returns the underlying cause
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new structured error
func New(errType ErrorType, operation, message string) *StructuredError {
	return &StructuredError{
		Type:      errType,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, operation, message string) *StructuredError {
	if err == nil {
		return nil
	}

	return &StructuredError{
		Type:      errType,
		Operation: operation,
		Message:   message,
		Cause:     err,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
	}
}

// WithContext adds context information to an error
func (e *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[:n]
}

// NewDimensionMismatch reports two vectors (or a vector and a vocabulary)
// whose lengths differ.
func NewDimensionMismatch(operation string, expected, actual int) *StructuredError {
	return Wrap(ErrDimensionMismatch, ErrorTypeValidation, operation,
		fmt.Sprintf("expected length %d, got %d", expected, actual)).
		WithContext("expected", expected).
		WithContext("actual", actual)
}

// NewSingularCovariance reports a covariance matrix that cannot be inverted.
func NewSingularCovariance(operation string, condition float64) *StructuredError {
	return Wrap(ErrSingularCovariance, ErrorTypeComputation, operation,
		fmt.Sprintf("condition number %g", condition)).
		WithContext("condition", condition)
}

// NewEmptySample reports a covariance request without usable data.
func NewEmptySample(operation, message string) *StructuredError {
	return Wrap(ErrEmptySample, ErrorTypeValidation, operation, message)
}

// NewInvalidLabel reports a label map entry that cannot be vectorized.
func NewInvalidLabel(operation, label string, value float64) *StructuredError {
	return Wrap(ErrInvalidLabel, ErrorTypeInput, operation,
		fmt.Sprintf("label %q has confidence %v", label, value)).
		WithContext("label", label)
}

// NewDuplicateItem reports an item id seen twice in one corpus.
func NewDuplicateItem(operation, id string) *StructuredError {
	return Wrap(ErrDuplicateItem, ErrorTypeInput, operation,
		fmt.Sprintf("item %q already present", id)).
		WithContext("item", id)
}

// NewUnknownItem reports an item id a tag source has no labels for.
func NewUnknownItem(operation, id string) *StructuredError {
	return Wrap(ErrUnknownItem, ErrorTypeInput, operation,
		fmt.Sprintf("no labels for item %q", id)).
		WithContext("item", id)
}

// NewUnknownMetric reports a metric name or kind outside the supported set.
func NewUnknownMetric(operation, name string) *StructuredError {
	return Wrap(ErrUnknownMetric, ErrorTypeConfiguration, operation,
		fmt.Sprintf("unsupported metric %q", name)).
		WithContext("metric", name)
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(operation, message string) *StructuredError {
	return New(ErrorTypeConfiguration, operation, message)
}

// WrapComputationError wraps an error as a computation error
func WrapComputationError(err error, operation, message string) *StructuredError {
	return Wrap(err, ErrorTypeComputation, operation, message)
}

// WrapInputError wraps an error as an input error
func WrapInputError(err error, operation, message string) *StructuredError {
	return Wrap(err, ErrorTypeInput, operation, message)
}

// IsDimensionMismatch reports whether err is, or wraps, ErrDimensionMismatch.
func IsDimensionMismatch(err error) bool {
	return stderrors.Is(err, ErrDimensionMismatch)
}

// IsSingularCovariance reports whether err is, or wraps, ErrSingularCovariance.
func IsSingularCovariance(err error) bool {
	return stderrors.Is(err, ErrSingularCovariance)
}
