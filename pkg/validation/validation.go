// pkg/validation/validation.go

// Package validation provides range checks for configuration values and input commands.
package validation

import (
	"fmt"
	"math"
)

// ValidationError reports a single field that failed validation
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements error
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Message)
}

func newError(field string, value interface{}, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidateFinite rejects NaN and infinities
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return newError(field, v, "must be a finite number")
	}
	return nil
}

// ValidatePositive requires a finite value strictly greater than zero
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return newError(field, v, "must be greater than 0")
	}
	return nil
}

// ValidateRange requires a finite value in [min, max]
func ValidateRange(field string, v, min, max float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v < min || v > max {
		return newError(field, v, "must be between %g and %g", min, max)
	}
	return nil
}

// ValidateCount requires an integer in [min, max]
func ValidateCount(field string, n, min, max int) error {
	if n < min || n > max {
		return newError(field, n, "must be between %d and %d", min, max)
	}
	return nil
}

// ValidatePoint checks that both coordinates of a pointer or target are finite.
// Launch targets coming from input devices go through here.
func ValidatePoint(field string, x, y float64) error {
	if err := ValidateFinite(field+".x", x); err != nil {
		return err
	}
	return ValidateFinite(field+".y", y)
}

// ValidateOneOf requires value to be one of allowed
func ValidateOneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return newError(field, value, "must be one of %v", allowed)
}
