package validation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conferenceplanner/internal/domain"
)

// UniquenessChecker detects same-name collisions on a calendar date. Names
// compare case-insensitively: "Intro" and "intro" on the same date collide.
//
// Like ConflictDetector this is a pre-check; the store's unique index on
// (lower(name), date) is the backstop.
type UniquenessChecker struct {
	events domain.EventRepository
}

// NewUniquenessChecker returns a UniquenessChecker reading from the given repository.
func NewUniquenessChecker(events domain.EventRepository) *UniquenessChecker {
	return &UniquenessChecker{events: events}
}

// NameUniqueOnDate reports whether no event on date's calendar day carries
// the given name (case-insensitive), excluding excludeEventID when non-empty.
// An empty name or zero date is vacuously unique; the required-field rules
// are enforced separately.
func (c *UniquenessChecker) NameUniqueOnDate(ctx context.Context, date time.Time, name string, excludeEventID string) (bool, error) {
	if name == "" || date.IsZero() {
		return true, nil
	}
	sameDay, err := c.events.ListByNameAndDate(ctx, name, date)
	if err != nil {
		return false, fmt.Errorf("list events by name and date: %w", err)
	}
	for _, e := range sameDay {
		if excludeEventID != "" && e.ID == excludeEventID {
			continue
		}
		if strings.EqualFold(e.Name, name) {
			return false, nil
		}
	}
	return true, nil
}
