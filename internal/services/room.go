package services

import (
	"context"
	"errors"
	"fmt"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/validation"
)

// constraintRoomName is the unique constraint on rooms.name.
const constraintRoomName = "rooms_name_key"

type roomService struct {
	rooms     domain.RoomRepository
	validator *validation.RoomValidator
}

// NewRoomService creates a RoomService with the given repository and validator.
func NewRoomService(rooms domain.RoomRepository, validator *validation.RoomValidator) domain.RoomService {
	return &roomService{rooms: rooms, validator: validator}
}

func (s *roomService) Create(ctx context.Context, room *domain.Room) ([]domain.FieldError, error) {
	fieldErrs, err := s.validator.Validate(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("validate room: %w", err)
	}
	if len(fieldErrs) > 0 {
		return fieldErrs, nil
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		if fe, ok := mapRoomNameViolation(err); ok {
			return []domain.FieldError{fe}, nil
		}
		return nil, fmt.Errorf("create room: %w", err)
	}
	return nil, nil
}

func (s *roomService) Update(ctx context.Context, room *domain.Room) ([]domain.FieldError, error) {
	if _, err := s.rooms.GetByID(ctx, room.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}

	fieldErrs, err := s.validator.Validate(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("validate room: %w", err)
	}
	if len(fieldErrs) > 0 {
		return fieldErrs, nil
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		if fe, ok := mapRoomNameViolation(err); ok {
			return []domain.FieldError{fe}, nil
		}
		return nil, fmt.Errorf("update room: %w", err)
	}
	return nil, nil
}

func mapRoomNameViolation(err error) (domain.FieldError, bool) {
	var uv *domain.UniqueViolationError
	if errors.As(err, &uv) && uv.Constraint == constraintRoomName {
		return domain.FieldError{
			Field: "name", Code: domain.CodeRoomNameExists,
			Message: "room name must be unique",
		}, true
	}
	return domain.FieldError{}, false
}

func (s *roomService) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

func (s *roomService) List(ctx context.Context) ([]*domain.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	if rooms == nil {
		rooms = []*domain.Room{}
	}
	return rooms, nil
}

func (s *roomService) Delete(ctx context.Context, id string) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
