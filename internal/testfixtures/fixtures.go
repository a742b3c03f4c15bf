// Package testfixtures provides deterministic builders and a SQLite
// harness shared by persistence and application tests.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

var (
	roomCounter        uint64
	reservationCounter uint64
)

var referenceTime = time.Date(2025, time.August, 18, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// RoomOption configures a generated room fixture.
type RoomOption func(*persistence.Room)

// NewRoomFixture returns a deterministic room record with optional overrides.
func NewRoomFixture(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)

	room := persistence.Room{
		ID:        fmt.Sprintf("room-%03d", idx),
		Name:      fmt.Sprintf("Room %03d", idx),
		Capacity:  8,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomName overrides the fixture room name.
func WithRoomName(name string) RoomOption {
	return func(room *persistence.Room) { room.Name = name }
}

// WithRoomCapacity overrides the fixture room capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(room *persistence.Room) { room.Capacity = capacity }
}

// ReservationOption configures a generated reservation fixture.
type ReservationOption func(*persistence.Reservation)

// NewReservationFixture returns a deterministic reservation for the
// given room. Consecutive fixtures occupy consecutive one hour slots so
// they never overlap unless a test asks them to.
func NewReservationFixture(roomID string, opts ...ReservationOption) persistence.Reservation {
	idx := atomic.AddUint64(&reservationCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * 24 * time.Hour)

	reservation := persistence.Reservation{
		ID:            fmt.Sprintf("reservation-%03d", idx),
		RoomID:        roomID,
		OrganizerName: fmt.Sprintf("Organizer %03d", idx),
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		CreatedAt:     referenceTime,
	}
	for _, opt := range opts {
		opt(&reservation)
	}
	return reservation
}

// WithWindow overrides the reservation start and end.
func WithWindow(start, end time.Time) ReservationOption {
	return func(reservation *persistence.Reservation) {
		reservation.StartTime = start
		reservation.EndTime = end
	}
}

// WithOrganizer overrides the reservation organizer name.
func WithOrganizer(name string) ReservationOption {
	return func(reservation *persistence.Reservation) { reservation.OrganizerName = name }
}
