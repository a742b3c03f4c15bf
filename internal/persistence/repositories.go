package persistence

import (
	"context"
	"time"
)

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	// DeleteRoom removes a room together with all of its reservations in one
	// transaction so no reservation can outlive its room.
	DeleteRoom(ctx context.Context, id string) error
}

// ReservationRepository stores reservations and answers the range queries the
// booking rule needs.
type ReservationRepository interface {
	// CreateReservation re-checks room occupancy and inserts the record
	// inside a single transaction; it returns ErrOverlap when the
	// [StartTime, EndTime) range intersects an existing reservation for the
	// same room.
	CreateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	// ListReservations returns the reservations for a room whose EndTime is
	// at or after the supplied reference instant, ordered by StartTime
	// ascending.
	ListReservations(ctx context.Context, roomID string, endsAtOrAfter time.Time) ([]Reservation, error)
	// ListOverlapping returns the reservations for a room intersecting the
	// half-open [start, end) range.
	ListOverlapping(ctx context.Context, roomID string, start, end time.Time) ([]Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	// DeleteFinishedBefore removes reservations whose EndTime is strictly
	// before the cutoff, returning the number of rows removed.
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
