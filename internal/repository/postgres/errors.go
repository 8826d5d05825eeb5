package postgres

import (
	"errors"

	"github.com/lib/pq"

	"conferenceplanner/internal/domain"
)

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// mapError translates driver errors into domain errors. Unique constraint
// violations become *domain.UniqueViolationError carrying the constraint
// name, so services can map a race loss back to the matching field error.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return &domain.UniqueViolationError{Constraint: pqErr.Constraint}
	}
	return err
}
