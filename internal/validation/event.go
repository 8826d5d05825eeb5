package validation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"conferenceplanner/internal/domain"
)

// Speaker count bounds for an event.
const (
	MinSpeakers = 1
	MaxSpeakers = 3
)

// Mode selects create or update semantics for event validation.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// EventValidator runs the full validation pass for a candidate event. All
// applicable rules run on every call so a single submission reveals every
// problem at once; the returned slice is empty when the event may be
// persisted.
//
// EventValidator holds no mutable state and is safe for concurrent use.
type EventValidator struct {
	window    Window
	conflicts *ConflictDetector
	names     *UniquenessChecker
}

// NewEventValidator returns an EventValidator checking schedule conflicts
// against the given repository and timestamps against the given conference window.
func NewEventValidator(events domain.EventRepository, window Window) *EventValidator {
	return &EventValidator{
		window:    window,
		conflicts: NewConflictDetector(events),
		names:     NewUniquenessChecker(events),
	}
}

// Validate checks the candidate event and returns one FieldError per violated
// rule. In ModeUpdate, original must be the currently persisted version: the
// conflict scan only re-runs when room or start time changed, and the name
// uniqueness scan only when name (case-insensitive) or calendar date changed,
// always excluding the event's own id.
//
// The non-nil error return is reserved for store read failures; field errors
// never surface there.
func (v *EventValidator) Validate(ctx context.Context, event *domain.Event, mode Mode, original *domain.Event) ([]domain.FieldError, error) {
	var errs []domain.FieldError

	switch {
	case event.Name == "":
		errs = append(errs, domain.FieldError{
			Field: "name", Code: domain.CodeNameRequired,
			Message: "event name is required",
		})
	case !unicode.IsLetter([]rune(event.Name)[0]):
		errs = append(errs, domain.FieldError{
			Field: "name", Code: domain.CodeNameMustStartWithLetter,
			Message: "event name must start with a letter",
		})
	}

	if event.RoomID == "" {
		errs = append(errs, domain.FieldError{
			Field: "room", Code: domain.CodeRoomRequired,
			Message: "room is required",
		})
	}

	if event.StartTime.IsZero() {
		errs = append(errs, domain.FieldError{
			Field: "start_time", Code: domain.CodeDateTimeRequired,
			Message: "event date/time is required",
		})
	} else if !v.window.Contains(event.StartTime) {
		errs = append(errs, domain.FieldError{
			Field: "start_time", Code: domain.CodeOutsideConferenceWindow,
			Message: fmt.Sprintf("event must be scheduled during the conference (%s to %s)",
				v.window.Start.Format("2006-01-02"), v.window.End.Format("2006-01-02")),
		})
	}

	if event.Price == 0 {
		errs = append(errs, domain.FieldError{
			Field: "price", Code: domain.CodePriceRequired,
			Message: "event price is required",
		})
	} else if !InPriceRange(event.Price) {
		errs = append(errs, domain.FieldError{
			Field: "price", Code: domain.CodePriceOutOfRange,
			Message: fmt.Sprintf("event price must be at least %.2f and below %.2f", MinPrice, MaxPrice),
		})
	}

	if !InBeamerCodeRange(event.BeamerCode) {
		errs = append(errs, domain.FieldError{
			Field: "beamer_code", Code: domain.CodeBeamerCodeOutOfRange,
			Message: fmt.Sprintf("beamer code must be between %d and %d", MinBeamerCode, MaxBeamerCode),
		})
	}

	if !ValidChecksum(event.BeamerCode, event.BeamerCheck) {
		errs = append(errs, domain.FieldError{
			Field: "beamer_check", Code: domain.CodeInvalidChecksum,
			Message: "beamer check does not match beamer code",
		})
	}

	if len(event.Speakers) < MinSpeakers || len(event.Speakers) > MaxSpeakers {
		errs = append(errs, domain.FieldError{
			Field: "speakers", Code: domain.CodeSpeakerCountInvalid,
			Message: fmt.Sprintf("an event must have between %d and %d speakers", MinSpeakers, MaxSpeakers),
		})
	}

	exclude := ""
	if mode == ModeUpdate {
		exclude = event.ID
	}

	if v.needsConflictCheck(event, mode, original) {
		available, err := v.conflicts.RoomAvailable(ctx, event.RoomID, event.StartTime, exclude)
		if err != nil {
			return nil, err
		}
		if !available {
			errs = append(errs, domain.FieldError{
				Field: "room", Code: domain.CodeRoomUnavailable,
				Message: "the selected room is not available at this time",
			})
		}
	}

	if v.needsUniquenessCheck(event, mode, original) {
		unique, err := v.names.NameUniqueOnDate(ctx, event.StartTime, event.Name, exclude)
		if err != nil {
			return nil, err
		}
		if !unique {
			errs = append(errs, domain.FieldError{
				Field: "name", Code: domain.CodeNameExists,
				Message: "an event with this name already exists on the same date",
			})
		}
	}

	return errs, nil
}

// needsConflictCheck skips the room scan when the schedule-relevant fields
// are missing (required errors already reported) or, on update, untouched.
func (v *EventValidator) needsConflictCheck(event *domain.Event, mode Mode, original *domain.Event) bool {
	if event.RoomID == "" || event.StartTime.IsZero() {
		return false
	}
	if mode == ModeUpdate && original != nil {
		return event.RoomID != original.RoomID || !event.StartTime.Equal(original.StartTime)
	}
	return true
}

func (v *EventValidator) needsUniquenessCheck(event *domain.Event, mode Mode, original *domain.Event) bool {
	if event.Name == "" || event.StartTime.IsZero() {
		return false
	}
	if mode == ModeUpdate && original != nil {
		return !strings.EqualFold(event.Name, original.Name) ||
			!sameCalendarDate(event.StartTime, original.StartTime)
	}
	return true
}

func sameCalendarDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
