package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository using
// SQLite.
type ReservationRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewReservationRepository creates a new SQLite reservation repository.
func NewReservationRepository(pool *ConnectionPool) *ReservationRepository {
	return &ReservationRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateReservation inserts a reservation after re-checking occupancy inside
// the same transaction. Two concurrent submissions for the same slot cannot
// both pass the count because SQLite serializes the writes.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" || reservation.RoomID == "" {
		return persistence.ErrConstraintViolation
	}
	if !reservation.StartTime.Before(reservation.EndTime) {
		return persistence.ErrConstraintViolation
	}

	start := reservation.StartTime.UTC().Format(time.RFC3339)
	end := reservation.EndTime.UTC().Format(time.RFC3339)

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var occupied int
		err := r.helper.QueryRowTx(tx, `
			SELECT COUNT(1)
			FROM reservations
			WHERE room_id = ? AND start_time < ? AND end_time > ?
		`, reservation.RoomID, end, start).Scan(&occupied)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if occupied > 0 {
			return persistence.ErrOverlap
		}

		_, err = r.helper.ExecTx(tx, `
			INSERT INTO reservations (id, room_id, organizer_name, start_time, end_time, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			reservation.ID,
			reservation.RoomID,
			reservation.OrganizerName,
			start,
			end,
			reservation.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		return nil
	})
}

// GetReservation retrieves a reservation by ID.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, room_id, organizer_name, start_time, end_time, created_at
		FROM reservations
		WHERE id = ?
	`

	reservation, err := scanReservation(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Reservation{}, persistence.ErrNotFound
		}
		return persistence.Reservation{}, r.mapper.MapError(err)
	}

	return reservation, nil
}

// ListReservations returns the reservations for a room that end at or after
// the reference instant, ordered by start time ascending.
func (r *ReservationRepository) ListReservations(ctx context.Context, roomID string, endsAtOrAfter time.Time) ([]persistence.Reservation, error) {
	query := `
		SELECT id, room_id, organizer_name, start_time, end_time, created_at
		FROM reservations
		WHERE room_id = ? AND end_time >= ?
		ORDER BY start_time ASC, id ASC
	`

	return r.queryReservations(ctx, query, roomID, endsAtOrAfter.UTC().Format(time.RFC3339))
}

// ListOverlapping returns the reservations for a room intersecting the
// half-open [start, end) range.
func (r *ReservationRepository) ListOverlapping(ctx context.Context, roomID string, start, end time.Time) ([]persistence.Reservation, error) {
	query := `
		SELECT id, room_id, organizer_name, start_time, end_time, created_at
		FROM reservations
		WHERE room_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time ASC, id ASC
	`

	return r.queryReservations(ctx, query,
		roomID,
		end.UTC().Format(time.RFC3339),
		start.UTC().Format(time.RFC3339),
	)
}

// DeleteReservation removes a reservation by ID.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM reservations WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// DeleteFinishedBefore removes reservations that ended strictly before the
// cutoff and reports how many were removed.
func (r *ReservationRepository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.helper.Exec(ctx,
		"DELETE FROM reservations WHERE end_time < ?",
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}

	return result.RowsAffected()
}

func (r *ReservationRepository) queryReservations(ctx context.Context, query string, args ...any) ([]persistence.Reservation, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return reservations, nil
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	var startStr, endStr, createdAtStr string

	err := row.Scan(
		&reservation.ID,
		&reservation.RoomID,
		&reservation.OrganizerName,
		&startStr,
		&endStr,
		&createdAtStr,
	)
	if err != nil {
		return persistence.Reservation{}, err
	}

	if reservation.StartTime, err = time.Parse(time.RFC3339, startStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if reservation.EndTime, err = time.Parse(time.RFC3339, endStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if reservation.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return reservation, nil
}
