package validation

import (
	"context"
	"fmt"
	"time"

	"conferenceplanner/internal/domain"
)

// ConflictDetector detects room/time-slot collisions. A collision is two
// events with the same room and the identical start timestamp; events are
// points in time here, not intervals, so back-to-back or overlapping talks
// never collide.
//
// This is a fast-fail pre-check: the store's unique index on
// (room_id, start_time) remains the correctness backstop under concurrent
// writers.
type ConflictDetector struct {
	events domain.EventRepository
}

// NewConflictDetector returns a ConflictDetector reading from the given repository.
func NewConflictDetector(events domain.EventRepository) *ConflictDetector {
	return &ConflictDetector{events: events}
}

// RoomAvailable reports whether no event occupies the room at startTime.
// excludeEventID, when non-empty, is ignored in the scan so an update does
// not collide with itself.
func (d *ConflictDetector) RoomAvailable(ctx context.Context, roomID string, startTime time.Time, excludeEventID string) (bool, error) {
	occupants, err := d.events.ListByRoomAndTime(ctx, roomID, startTime)
	if err != nil {
		return false, fmt.Errorf("list events by room and time: %w", err)
	}
	for _, e := range occupants {
		if excludeEventID != "" && e.ID == excludeEventID {
			continue
		}
		return false, nil
	}
	return true, nil
}
