package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"conferenceplanner/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns an EventRepository backed by postgres. The
// events table carries unique indexes on (room_id, start_time) and on
// (lower(name), UTC date of start_time); those indexes are the hard backstop for
// the scheduling invariants under concurrent writers.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `id, name, description, room_id, start_time, beamer_code, beamer_check, price, version, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (name, description, room_id, start_time, beamer_code, beamer_check, price, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)
		RETURNING id, version
	`
	err = tx.QueryRowContext(ctx, query,
		e.Name, e.Description, e.RoomID, e.StartTime,
		e.BeamerCode, e.BeamerCheck, e.Price, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID, &e.Version)
	if err != nil {
		return mapError(err)
	}

	if err := insertSpeakers(ctx, tx, e.ID, e.Speakers); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE events
		SET name = $1, description = $2, room_id = $3, start_time = $4,
		    beamer_code = $5, beamer_check = $6, price = $7,
		    version = version + 1, updated_at = $8
		WHERE id = $9 AND version = $10
	`
	res, err := tx.ExecContext(ctx, query,
		e.Name, e.Description, e.RoomID, e.StartTime,
		e.BeamerCode, e.BeamerCheck, e.Price, e.UpdatedAt,
		e.ID, e.Version,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVersionConflict
	}
	e.Version++

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_speakers WHERE event_id = $1`, e.ID); err != nil {
		return err
	}
	if err := insertSpeakers(ctx, tx, e.ID, e.Speakers); err != nil {
		return err
	}
	return tx.Commit()
}

func insertSpeakers(ctx context.Context, tx *sql.Tx, eventID string, speakers []string) error {
	for i, speaker := range speakers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO event_speakers (event_id, position, speaker) VALUES ($1, $2, $3)`,
			eventID, i, speaker,
		)
		if err != nil {
			return fmt.Errorf("insert speaker: %w", err)
		}
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadSpeakers(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_time, name`
	return r.queryEvents(ctx, query)
}

func (r *eventRepository) ListByRoomAndTime(ctx context.Context, roomID string, startTime time.Time) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE room_id = $1 AND start_time = $2`
	return r.queryEvents(ctx, query, roomID, startTime)
}

func (r *eventRepository) ListByNameAndDate(ctx context.Context, name string, date time.Time) ([]*domain.Event, error) {
	// Same UTC date expression as the events_name_date_key index, so this
	// scan and the index backstop agree on which calendar day a start time
	// falls on regardless of the session TimeZone.
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE lower(name) = lower($1)
		AND (start_time AT TIME ZONE 'UTC')::date = ($2::timestamptz AT TIME ZONE 'UTC')::date`
	return r.queryEvents(ctx, query, name, date)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Speakers are fetched per event. Listings here are small (one
	// conference week); revisit with a join if that changes.
	for _, e := range events {
		if err := r.loadSpeakers(ctx, e); err != nil {
			return nil, err
		}
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &descNull, &e.RoomID, &e.StartTime,
		&e.BeamerCode, &e.BeamerCheck, &e.Price, &e.Version,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if descNull.Valid {
		e.Description = descNull.String
	}
	return e, nil
}

func (r *eventRepository) loadSpeakers(ctx context.Context, e *domain.Event) error {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT speaker FROM event_speakers WHERE event_id = $1 ORDER BY position`, e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	speakers := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return err
		}
		speakers = append(speakers, s)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	e.Speakers = speakers
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Remove the event from every user's favorites first so no orphan
	// references survive the delete.
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_favorites WHERE event_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_speakers WHERE event_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
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
	return tx.Commit()
}
