package domain

import (
	"errors"
	"time"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Entity-specific validation errors wrap it.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrConflict is returned when an operation is not possible in the
	// entity's current state.
	ErrConflict = errors.New("conflicting state")
)

// now returns the current time at the precision the stores keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
