package domain

import (
	"context"
	"time"
)

// Event represents a scheduled conference talk. An event occupies its room at
// an exact start timestamp; there is no duration or interval model.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Speakers    []string  `json:"speakers"`
	RoomID      string    `json:"room_id"`
	StartTime   time.Time `json:"start_time"`
	BeamerCode  int       `json:"beamer_code"`
	BeamerCheck int       `json:"beamer_check"`
	Price       float64   `json:"price"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID and Version are set
// by the repository on create.
func NewEvent(name, description, roomID string, speakers []string, startTime time.Time, beamerCode, beamerCheck int, price float64) *Event {
	return &Event{
		Name:        name,
		Description: description,
		Speakers:    speakers,
		RoomID:      roomID,
		StartTime:   startTime,
		BeamerCode:  beamerCode,
		BeamerCheck: beamerCheck,
		Price:       price,
	}
}

// EventSort names the supported orderings for event listings.
const (
	SortName         = "name"
	SortNameDesc     = "name_desc"
	SortPrice        = "price"
	SortPriceDesc    = "price_desc"
	SortDateTime     = "datetime"
	SortDateTimeDesc = "datetime_desc"
	SortPopularity   = "popularity"
)

// EventFilter narrows and orders event listings. Zero values mean "no filter".
type EventFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	RoomID   string
	MaxPrice *float64
	Search   string
	Sort     string
}

// EventRepository defines the interface for event storage.
//
// Create and Update must enforce the (room_id, start_time) and
// (lower(name), date) unique constraints and return *UniqueViolationError
// when a concurrent writer got there first. Delete must also remove the
// event from every user's favorites.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ListByRoomAndTime(ctx context.Context, roomID string, startTime time.Time) ([]*Event, error)
	ListByNameAndDate(ctx context.Context, name string, date time.Time) ([]*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for scheduling events. Create and
// Update return field errors when the candidate event violates a scheduling
// rule; a nil or empty slice means the event was persisted.
type EventService interface {
	Create(ctx context.Context, event *Event) ([]FieldError, error)
	Update(ctx context.Context, event *Event) ([]FieldError, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	Delete(ctx context.Context, id string) error
	FavoriteCounts(ctx context.Context, eventIDs []string) (map[string]int, error)
}
