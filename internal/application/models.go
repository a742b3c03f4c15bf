package application

import "time"

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name     string
	Capacity int
}

// Room represents a bookable meeting room exposed by the application services.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReservationInput captures caller provided reservation fields. The room is
// never part of the input; it comes from the operation's room identifier.
type ReservationInput struct {
	OrganizerName string
	StartTime     time.Time
	EndTime       time.Time
}

// Reservation represents a persisted booking of one room.
type Reservation struct {
	ID            string
	RoomID        string
	OrganizerName string
	StartTime     time.Time
	EndTime       time.Time
	CreatedAt     time.Time
}

// CreateReservationParams wraps the data required to book a room.
type CreateReservationParams struct {
	RoomID string
	Input  ReservationInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	RoomID string
	Input  RoomInput
}
