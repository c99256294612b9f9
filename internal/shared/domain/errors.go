package domain

import (
	"errors"
	"fmt"
)

// Base errors for the failure taxonomy. Business errors wrap one of these so
// transport layers can map them to a status code with errors.Is.
var (
	// ErrValidation indicates bad or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates an unknown id or no record matching a predicate.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates an invariant would be violated.
	ErrConflict = errors.New("conflict")
	// ErrStorage indicates an underlying persistence failure.
	ErrStorage = errors.New("storage failure")
)

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf creates a not-found error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf creates a conflict error with a formatted message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Storagef wraps a persistence error so callers see a storage failure while
// the original cause stays available for logging.
func Storagef(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
