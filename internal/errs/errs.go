package errs

import (
	"errors"
	"fmt"
)

// Error classes shared by the wind, rail, beam and span packages.
// Callers test for them with errors.Is.
var (
	// ErrConfiguration is returned for unknown regions, roof types, zone
	// codes and other enumerated values.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidInput is returned for non-positive spans, span counts,
	// safety factors and similar numeric preconditions.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSingularSystem is returned when the support-moment system cannot
	// be solved.
	ErrSingularSystem = errors.New("singular system")
)

// InputError describes a rejected numeric input
type InputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s = %g: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// Invalid builds an InputError.
func Invalid(field string, value float64, reason string) error {
	return &InputError{Field: field, Value: value, Reason: reason}
}

// Positive returns an InputError unless value > 0.
func Positive(field string, value float64) error {
	if value > 0 {
		return nil
	}
	return Invalid(field, value, "must be positive")
}

// Unknown wraps ErrConfiguration with the offending kind and value.
func Unknown(kind, value string) error {
	return fmt.Errorf("%w: unknown %s %q", ErrConfiguration, kind, value)
}
