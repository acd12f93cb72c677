// Package errors provides custom error types for pricing errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidSteps       = errors.New("number of steps must be positive")
	ErrStepsExceedLattice = errors.New("option steps exceed lattice steps")
	ErrArbitrage          = errors.New("risk-neutral probability outside (0,1)")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrUnknownStyle       = errors.New("unknown exercise style")
	ErrUnknownPayoff      = errors.New("unknown payoff kind")
)

// ValidationError represents a rejected input parameter.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation error: %s (%v): %s: %v", e.Field, e.Value, e.Message, e.Err)
	}
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}

// CalibrationError reports a lattice whose risk-neutral probability is not a probability.
type CalibrationError struct {
	Up    float64
	Down  float64
	Drift float64
	Prob  float64
}

func (e *CalibrationError) Error() string {
	return fmt.Sprintf("calibration error: p=%.6f from u=%.6f d=%.6f growth=%.6f: %v",
		e.Prob, e.Up, e.Down, e.Drift, ErrArbitrage)
}

func (e *CalibrationError) Unwrap() error {
	return ErrArbitrage
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
