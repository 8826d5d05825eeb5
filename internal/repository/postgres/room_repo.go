package postgres

import (
	"context"
	"database/sql"
	"errors"

	"conferenceplanner/internal/domain"
)

type roomRepository struct {
	DB *sql.DB
}

// NewRoomRepository returns a RoomRepository backed by postgres. Room names
// carry a unique constraint (rooms_name_key).
func NewRoomRepository(db *sql.DB) domain.RoomRepository {
	return &roomRepository{DB: db}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (name, capacity)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, room.Name, room.Capacity).Scan(&room.ID)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE rooms SET name = $1, capacity = $2 WHERE id = $3`,
		room.Name, room.Capacity, room.ID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	room := &domain.Room{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, capacity FROM rooms WHERE id = $1`, id,
	).Scan(&room.ID, &room.Name, &room.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *roomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, capacity FROM rooms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room := &domain.Room{}
		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *roomRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM rooms WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
