package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrFavoritesLimit     = errors.New("favorites limit reached")
	ErrVersionConflict    = errors.New("concurrent modification")
	ErrDuplicateUsername  = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UniqueViolationError is returned by repositories when an insert or update
// loses a race against a concurrent writer and hits a unique constraint.
// Constraint carries the database constraint name so callers can map the
// violation back to the matching field error.
type UniqueViolationError struct {
	Constraint string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique constraint violation: %s", e.Constraint)
}
