package validation

import "conferenceplanner/internal/domain"

// DefaultFavoritesLimit is the per-user favorites cap when no limit is configured.
const DefaultFavoritesLimit = 5

// AddFavorite inserts eventID into the user's favorites set. Adding an
// already-favorited event is a no-op, not an error. Returns
// domain.ErrFavoritesLimit when the set is full.
//
// This mutates the in-memory aggregate only; persisting the new set (and the
// optimistic version check that guards it) is the caller's job.
func AddFavorite(user *domain.User, eventID string, limit int) error {
	if user.IsFavorite(eventID) {
		return nil
	}
	if len(user.Favorites) >= limit {
		return domain.ErrFavoritesLimit
	}
	user.Favorites = append(user.Favorites, eventID)
	return nil
}

// RemoveFavorite removes eventID from the user's favorites set. Removing a
// non-favorited event is a no-op, never an error.
func RemoveFavorite(user *domain.User, eventID string) error {
	for i, id := range user.Favorites {
		if id == eventID {
			user.Favorites = append(user.Favorites[:i], user.Favorites[i+1:]...)
			return nil
		}
	}
	return nil
}

// ToggleFavorite removes the event if favorited, adds it otherwise. Returns
// whether the event is favorited after the call.
func ToggleFavorite(user *domain.User, eventID string, limit int) (bool, error) {
	if user.IsFavorite(eventID) {
		return false, RemoveFavorite(user, eventID)
	}
	if err := AddFavorite(user, eventID, limit); err != nil {
		return false, err
	}
	return true, nil
}
