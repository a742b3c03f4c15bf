package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateRoom inserts a new room into the database.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO rooms (id, name, capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		room.ID,
		room.Name,
		room.Capacity,
		room.CreatedAt.UTC().Format(time.RFC3339),
		room.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateRoom updates an existing room in the database.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" {
		return persistence.ErrNotFound
	}
	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	query := `
		UPDATE rooms
		SET name = ?, capacity = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		room.Name,
		room.Capacity,
		room.UpdatedAt.UTC().Format(time.RFC3339),
		room.ID,
	)
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

// GetRoom retrieves a room by ID from the database.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, name, capacity, created_at, updated_at
		FROM rooms
		WHERE id = ?
	`

	room, err := scanRoom(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, r.mapper.MapError(err)
	}

	return room, nil
}

// ListRooms returns all rooms ordered by name then ID.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	query := `
		SELECT id, name, capacity, created_at, updated_at
		FROM rooms
		ORDER BY name ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return rooms, nil
}

// DeleteRoom removes a room and all of its reservations in one transaction.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		// Explicit even though the schema also cascades: no reservation may
		// outlive its room.
		if _, err := r.helper.ExecTx(tx, "DELETE FROM reservations WHERE room_id = ?", id); err != nil {
			return r.mapper.MapError(err)
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM rooms WHERE id = ?", id)
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
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var createdAtStr, updatedAtStr string

	if err := row.Scan(&room.ID, &room.Name, &room.Capacity, &createdAtStr, &updatedAtStr); err != nil {
		return persistence.Room{}, err
	}

	var err error
	if room.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if room.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return room, nil
}
