package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/validation"
)

// Store-level unique constraint names backing the scheduling invariants.
// When a concurrent writer wins the race between our pre-check and the
// insert, the repository surfaces one of these and we translate it into the
// same field error the pre-check would have produced.
const (
	constraintRoomTime = "events_room_time_key"
	constraintNameDate = "events_name_date_key"
)

type eventService struct {
	events    domain.EventRepository
	users     domain.UserRepository
	validator *validation.EventValidator
	email     domain.EmailService
	logger    *slog.Logger
}

// NewEventService creates an EventService with the given repositories,
// validator, and email service. email may be nil; cancellation notices are
// then skipped.
func NewEventService(
	events domain.EventRepository,
	users domain.UserRepository,
	validator *validation.EventValidator,
	email domain.EmailService,
	logger *slog.Logger,
) domain.EventService {
	return &eventService{
		events:    events,
		users:     users,
		validator: validator,
		email:     email,
		logger:    logger,
	}
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) ([]domain.FieldError, error) {
	fieldErrs, err := s.validator.Validate(ctx, event, validation.ModeCreate, nil)
	if err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	if len(fieldErrs) > 0 {
		return fieldErrs, nil
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.events.Create(ctx, event); err != nil {
		if fe, ok := mapScheduleViolation(err); ok {
			return []domain.FieldError{fe}, nil
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return nil, nil
}

func (s *eventService) Update(ctx context.Context, event *domain.Event) ([]domain.FieldError, error) {
	original, err := s.events.GetByID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	fieldErrs, err := s.validator.Validate(ctx, event, validation.ModeUpdate, original)
	if err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	if len(fieldErrs) > 0 {
		return fieldErrs, nil
	}

	event.CreatedAt = original.CreatedAt
	event.Version = original.Version
	event.UpdatedAt = time.Now()

	if err := s.events.Update(ctx, event); err != nil {
		if fe, ok := mapScheduleViolation(err); ok {
			return []domain.FieldError{fe}, nil
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return nil, nil
}

// mapScheduleViolation translates a store-level unique constraint violation
// into the matching field error so API consumers see one consistent error
// shape regardless of which layer detected the collision.
func mapScheduleViolation(err error) (domain.FieldError, bool) {
	var uv *domain.UniqueViolationError
	if !errors.As(err, &uv) {
		return domain.FieldError{}, false
	}
	switch uv.Constraint {
	case constraintRoomTime:
		return domain.FieldError{
			Field: "room", Code: domain.CodeRoomUnavailable,
			Message: "the selected room is not available at this time",
		}, true
	case constraintNameDate:
		return domain.FieldError{
			Field: "name", Code: domain.CodeNameExists,
			Message: "an event with this name already exists on the same date",
		}, true
	}
	return domain.FieldError{}, false
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	filtered := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if !matchesFilter(e, filter) {
			continue
		}
		filtered = append(filtered, e)
	}

	if err := s.sortEvents(ctx, filtered, filter.Sort); err != nil {
		return nil, err
	}
	return filtered, nil
}

func matchesFilter(e *domain.Event, filter domain.EventFilter) bool {
	if filter.DateFrom != nil && e.StartTime.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && !e.StartTime.Before(filter.DateTo.AddDate(0, 0, 1)) {
		return false
	}
	if filter.RoomID != "" && e.RoomID != filter.RoomID {
		return false
	}
	if filter.MaxPrice != nil && e.Price > *filter.MaxPrice {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(e.Name), needle) &&
			!strings.Contains(strings.ToLower(e.Description), needle) &&
			!speakerMatches(e.Speakers, needle) {
			return false
		}
	}
	return true
}

func speakerMatches(speakers []string, needle string) bool {
	for _, sp := range speakers {
		if strings.Contains(strings.ToLower(sp), needle) {
			return true
		}
	}
	return false
}

func (s *eventService) sortEvents(ctx context.Context, events []*domain.Event, by string) error {
	switch by {
	case domain.SortName:
		sort.SliceStable(events, func(i, j int) bool {
			return strings.ToLower(events[i].Name) < strings.ToLower(events[j].Name)
		})
	case domain.SortNameDesc:
		sort.SliceStable(events, func(i, j int) bool {
			return strings.ToLower(events[i].Name) > strings.ToLower(events[j].Name)
		})
	case domain.SortPrice:
		sort.SliceStable(events, func(i, j int) bool { return events[i].Price < events[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(events, func(i, j int) bool { return events[i].Price > events[j].Price })
	case domain.SortDateTimeDesc:
		sort.SliceStable(events, func(i, j int) bool { return events[j].StartTime.Before(events[i].StartTime) })
	case domain.SortPopularity:
		ids := make([]string, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		counts, err := s.users.CountFavorites(ctx, ids)
		if err != nil {
			return fmt.Errorf("count favorites: %w", err)
		}
		sort.SliceStable(events, func(i, j int) bool {
			return counts[events[i].ID] > counts[events[j].ID]
		})
	default:
		sort.SliceStable(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	}
	return nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	// Snapshot the users to notify before the delete removes the favorites rows.
	var toNotify []*domain.User
	if s.email != nil {
		toNotify, err = s.users.ListByFavoriteEvent(ctx, id)
		if err != nil {
			return fmt.Errorf("list users by favorite: %w", err)
		}
	}

	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	// Cancellation notices are best-effort; a mail failure never undoes the delete.
	for _, u := range toNotify {
		if u.Email == "" {
			continue
		}
		data := &domain.EventCancelledEmailData{
			Email:     u.Email,
			Username:  u.Username,
			EventName: event.Name,
			StartTime: event.StartTime.Format("2006-01-02 15:04"),
		}
		if err := s.email.SendEventCancelled(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "cancellation notice failed",
				"event_id", id, "user_id", u.ID, "err", err)
		}
	}
	return nil
}

func (s *eventService) FavoriteCounts(ctx context.Context, eventIDs []string) (map[string]int, error) {
	counts, err := s.users.CountFavorites(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("count favorites: %w", err)
	}
	return counts, nil
}
