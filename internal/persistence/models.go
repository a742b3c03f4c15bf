package persistence

import "time"

// Room represents a bookable meeting room record.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reservation represents a stored booking of one room for a half-open
// [StartTime, EndTime) range. Times are stored in UTC.
type Reservation struct {
	ID            string
	RoomID        string
	OrganizerName string
	StartTime     time.Time
	EndTime       time.Time
	CreatedAt     time.Time
}
