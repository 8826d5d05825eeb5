package validation

import (
	"context"
	"fmt"
	"regexp"

	"conferenceplanner/internal/domain"
)

// roomNameRe is the house room naming convention: one uppercase letter
// followed by exactly three digits.
var roomNameRe = regexp.MustCompile(`^[A-Z][0-9]{3}$`)

// ValidRoomName reports whether name matches the room naming convention.
func ValidRoomName(name string) bool {
	return roomNameRe.MatchString(name)
}

// RoomValidator runs the validation pass for a candidate room: name format,
// capacity bounds, and global name uniqueness on create.
type RoomValidator struct {
	rooms domain.RoomRepository
}

// NewRoomValidator returns a RoomValidator checking name uniqueness against
// the given repository.
func NewRoomValidator(rooms domain.RoomRepository) *RoomValidator {
	return &RoomValidator{rooms: rooms}
}

// Validate checks the candidate room and returns one FieldError per violated
// rule. Name uniqueness is only checked for not-yet-created rooms (empty ID);
// the store's unique constraint backs it either way.
func (v *RoomValidator) Validate(ctx context.Context, room *domain.Room) ([]domain.FieldError, error) {
	var errs []domain.FieldError

	switch {
	case room.Name == "":
		errs = append(errs, domain.FieldError{
			Field: "name", Code: domain.CodeRoomNameRequired,
			Message: "room name is required",
		})
	case !ValidRoomName(room.Name):
		errs = append(errs, domain.FieldError{
			Field: "name", Code: domain.CodeRoomNameFormat,
			Message: "room name must be a capital letter followed by 3 digits",
		})
	default:
		if room.ID == "" {
			exists, err := v.rooms.ExistsByName(ctx, room.Name)
			if err != nil {
				return nil, fmt.Errorf("check room name: %w", err)
			}
			if exists {
				errs = append(errs, domain.FieldError{
					Field: "name", Code: domain.CodeRoomNameExists,
					Message: "room name must be unique",
				})
			}
		}
	}

	if room.Capacity < domain.MinRoomCapacity || room.Capacity > domain.MaxRoomCapacity {
		errs = append(errs, domain.FieldError{
			Field: "capacity", Code: domain.CodeRoomCapacityOutOfRange,
			Message: fmt.Sprintf("room capacity must be between %d and %d", domain.MinRoomCapacity, domain.MaxRoomCapacity),
		})
	}

	return errs, nil
}
