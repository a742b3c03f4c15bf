// Package booking holds the reservation rule checks shared by every
// transport. The functions here are pure: they receive a candidate time range
// and a snapshot of existing reservations and decide whether the candidate may
// be persisted. Callers are responsible for running the check and the insert
// inside one storage transaction.
package booking

import "time"

// MaxDuration is the longest span a single reservation may cover.
const MaxDuration = 2 * time.Hour

// Fixed user-facing reasons. Both the JSON API and the rendered forms surface
// these strings verbatim, so they must not drift.
const (
	ReasonEndBeforeStart = "end must be after start"
	ReasonTooLong        = "exceeds maximum duration"
	ReasonOccupied       = "the room is already occupied in this time range"
)

// Interval is a half-open [Start, End) time range belonging to one room.
type Interval struct {
	ID    string
	Start time.Time
	End   time.Time
}

// RuleError reports the first booking rule a candidate reservation violates.
type RuleError struct {
	Reason string
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	if e == nil {
		return ""
	}
	return e.Reason
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not count as overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Validate decides whether a candidate [start, end) range may be booked given
// the room's existing reservations. The check order is fixed because it is
// observable in error responses: range direction, then duration, then
// occupancy. Returns nil when the candidate is acceptable, otherwise a
// *RuleError carrying the single reason to surface.
func Validate(start, end time.Time, existing []Interval) error {
	if !start.Before(end) {
		return &RuleError{Reason: ReasonEndBeforeStart}
	}
	if end.Sub(start) > MaxDuration {
		return &RuleError{Reason: ReasonTooLong}
	}
	for _, iv := range existing {
		if Overlaps(iv.Start, iv.End, start, end) {
			return &RuleError{Reason: ReasonOccupied}
		}
	}
	return nil
}
