package domain

import "context"

// Room capacity bounds enforced by room validation.
const (
	MinRoomCapacity = 1
	MaxRoomCapacity = 50
)

// Room represents a physical venue. Room names follow the house convention of
// one uppercase letter followed by three digits (e.g. "A101") and are
// globally unique.
// swagger:model Room
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// NewRoom returns a new Room with the given name and capacity. ID is set by
// the repository on create.
func NewRoom(name string, capacity int) *Room {
	return &Room{Name: name, Capacity: capacity}
}

// RoomRepository defines the interface for room storage.
type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	Update(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context) ([]*Room, error)
	Delete(ctx context.Context, id string) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// RoomService defines the business logic for managing rooms.
type RoomService interface {
	Create(ctx context.Context, room *Room) ([]FieldError, error)
	Update(ctx context.Context, room *Room) ([]FieldError, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context) ([]*Room, error)
	Delete(ctx context.Context, id string) error
}
