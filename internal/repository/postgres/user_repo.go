package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"conferenceplanner/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

// NewUserRepository returns a UserRepository backed by postgres. The users
// row carries a version column; UpdateFavorites is conditional on it, which
// makes the favorites count check atomic relative to concurrent saves of the
// same user.
func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, username, email, password_hash, password_salt, role, version, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, password_salt, role, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6, $7)
		RETURNING id, version
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.PasswordSalt, u.Role, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID, &u.Version)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.getOne(ctx, query, username)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.PasswordSalt,
		&u.Role, &u.Version, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadFavorites(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) loadFavorites(ctx context.Context, u *domain.User) error {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT event_id FROM user_favorites WHERE user_id = $1 ORDER BY position`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	favorites := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		favorites = append(favorites, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	u.Favorites = favorites
	return nil
}

func (r *userRepository) UpdateFavorites(ctx context.Context, userID string, favorites []string, version int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET version = version + 1, updated_at = $1 WHERE id = $2 AND version = $3`,
		time.Now(), userID, version,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVersionConflict
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_favorites WHERE user_id = $1`, userID); err != nil {
		return err
	}
	// Position preserves the order favorites were added in; loadFavorites
	// reads it back, like event_speakers does for speaker order.
	for i, eventID := range favorites {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_favorites (user_id, event_id, position) VALUES ($1, $2, $3)`,
			userID, eventID, i,
		)
		if err != nil {
			return mapError(err)
		}
	}
	return tx.Commit()
}

func (r *userRepository) ListByFavoriteEvent(ctx context.Context, eventID string) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.password_salt, u.role, u.version, u.created_at, u.updated_at
		FROM users u
		JOIN user_favorites f ON f.user_id = u.id
		WHERE f.event_id = $1
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.PasswordSalt,
			&u.Role, &u.Version, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) CountFavorites(ctx context.Context, eventIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(eventIDs) == 0 {
		return counts, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT event_id, COUNT(*) FROM user_favorites WHERE event_id = ANY($1) GROUP BY event_id`,
		pq.Array(eventIDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
