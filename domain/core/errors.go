package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	// Computation errors
	ErrInvalidInput   = errors.New("invalid input")
	ErrDivisionByZero = errors.New("division by zero")
	ErrNonFinite      = errors.New("result is not finite")
)

// Error constructors with context
func NewInvalidInputError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}

func NewDivisionByZeroError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDivisionByZero, reason)
}

func NewNonFiniteError(reason string) error {
	return fmt.Errorf("%w: %s", ErrNonFinite, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsDivisionByZero(err error) bool {
	return errors.Is(err, ErrDivisionByZero)
}

func IsNonFinite(err error) bool {
	return errors.Is(err, ErrNonFinite)
}

// IsComputationError reports whether err came from a rejected computation
// rather than from infrastructure.
func IsComputationError(err error) bool {
	return IsInvalidInput(err) || IsDivisionByZero(err) || IsNonFinite(err)
}
