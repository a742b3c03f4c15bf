package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConstraintViolation is returned when stored data would break a
	// schema-level check such as a positive capacity.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrOverlap is returned when a reservation insert loses the race against
	// another booking of the same room and time range.
	ErrOverlap = errors.New("persistence: overlapping reservation")
)
