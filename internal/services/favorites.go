package services

import (
	"context"
	"errors"
	"fmt"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/validation"
)

// favoritesRetries bounds the optimistic-concurrency retry loop. The count
// check and the favorites write are a read-modify-write; when a concurrent
// save of the same user bumps the version in between, we reload and retry a
// few times before surfacing the conflict.
const favoritesRetries = 3

type favoritesService struct {
	users  domain.UserRepository
	events domain.EventRepository
	limit  int
}

// NewFavoritesService creates a FavoritesService with the given repositories
// and per-user favorites cap. A non-positive limit falls back to the default.
func NewFavoritesService(users domain.UserRepository, events domain.EventRepository, limit int) domain.FavoritesService {
	if limit <= 0 {
		limit = validation.DefaultFavoritesLimit
	}
	return &favoritesService{
		users:  users,
		events: events,
		limit:  limit,
	}
}

func (s *favoritesService) Toggle(ctx context.Context, userID, eventID string) (bool, error) {
	var favorited bool
	err := s.mutate(ctx, userID, eventID, func(u *domain.User) error {
		var err error
		favorited, err = validation.ToggleFavorite(u, eventID, s.limit)
		return err
	})
	return favorited, err
}

func (s *favoritesService) Add(ctx context.Context, userID, eventID string) error {
	return s.mutate(ctx, userID, eventID, func(u *domain.User) error {
		return validation.AddFavorite(u, eventID, s.limit)
	})
}

func (s *favoritesService) Remove(ctx context.Context, userID, eventID string) error {
	return s.mutate(ctx, userID, eventID, func(u *domain.User) error {
		return validation.RemoveFavorite(u, eventID)
	})
}

// mutate loads the user, applies fn to the favorites set, and persists the
// result conditional on the user's version stamp, retrying on conflict.
func (s *favoritesService) mutate(ctx context.Context, userID, eventID string, fn func(*domain.User) error) error {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	for attempt := 0; attempt < favoritesRetries; attempt++ {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get user: %w", err)
		}

		if err := fn(user); err != nil {
			return err
		}

		err = s.users.UpdateFavorites(ctx, user.ID, user.Favorites, user.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return fmt.Errorf("update favorites: %w", err)
		}
	}
	return domain.ErrVersionConflict
}

func (s *favoritesService) List(ctx context.Context, userID string) ([]*domain.Event, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	events := make([]*domain.Event, 0, len(user.Favorites))
	for _, id := range user.Favorites {
		event, err := s.events.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Event deleted but the stale id survived in this snapshot; skip it.
				continue
			}
			return nil, fmt.Errorf("get favorite event: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}
