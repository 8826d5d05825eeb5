package domain

import (
	"context"
	"time"
)

// Application roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an attendee or administrator. Favorites holds the IDs of
// the events the user has marked, bounded by the configured favorites limit.
// Version is an optimistic concurrency stamp: favorites updates are
// conditional on it and fail with ErrVersionConflict when stale.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PasswordSalt string    `json:"-"`
	Role         string    `json:"role"`
	Favorites    []string  `json:"favorites"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID and Version are set by
// the repository on create.
func NewUser(username, email, passwordHash, passwordSalt, role string) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		PasswordSalt: passwordSalt,
		Role:         role,
		Favorites:    []string{},
	}
}

// IsFavorite reports whether the event is in the user's favorites set.
func (u *User) IsFavorite(eventID string) bool {
	for _, id := range u.Favorites {
		if id == eventID {
			return true
		}
	}
	return false
}

// UserRepository defines the interface for user storage.
//
// UpdateFavorites replaces the user's favorites set conditional on the given
// version stamp and returns ErrVersionConflict if another writer bumped the
// version in between. Create must return *UniqueViolationError on a
// duplicate username.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdateFavorites(ctx context.Context, userID string, favorites []string, version int64) error
	ListByFavoriteEvent(ctx context.Context, eventID string) ([]*User, error)
	CountFavorites(ctx context.Context, eventIDs []string) (map[string]int, error)
}

// FavoritesService defines the business logic for a user's favorites set.
type FavoritesService interface {
	// Toggle removes the event if favorited, adds it otherwise. Returns
	// whether the event is favorited after the call.
	Toggle(ctx context.Context, userID, eventID string) (bool, error)
	Add(ctx context.Context, userID, eventID string) error
	Remove(ctx context.Context, userID, eventID string) error
	List(ctx context.Context, userID string) ([]*Event, error)
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues bearer tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID, username string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID and roles.
type TokenVerifier interface {
	Verify(token string) (userID string, roles []string, err error)
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, username, email, password string) (*User, error)
	Login(ctx context.Context, username, password string) (token string, user *User, err error)
}
