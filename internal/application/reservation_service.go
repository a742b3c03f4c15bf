package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/room-booking/internal/booking"
	"github.com/example/room-booking/internal/persistence"
)

// ReservationRepository captures the persistence interactions needed by the
// service.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation persistence.Reservation) error
	GetReservation(ctx context.Context, id string) (persistence.Reservation, error)
	ListReservations(ctx context.Context, roomID string, endsAtOrAfter time.Time) ([]persistence.Reservation, error)
	ListOverlapping(ctx context.Context, roomID string, start, end time.Time) ([]persistence.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

// RoomCatalog exposes the room lookup the reservation flow needs.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
}

// ReservationService runs the booking rule and persists reservations.
type ReservationService struct {
	reservations ReservationRepository
	rooms        RoomCatalog
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService wires dependencies for reservation operations.
func NewReservationService(reservations ReservationRepository, rooms RoomCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// CreateReservation checks the booking rule for the requested room and time
// range and persists the reservation when it passes. The rule check is
// read-only; nothing is written on rejection. The repository repeats the
// occupancy check inside the insert transaction to close the race between two
// concurrent submissions for the same slot.
func (s *ReservationService) CreateReservation(ctx context.Context, params CreateReservationParams) (reservation Reservation, err error) {
	if s == nil || s.reservations == nil || s.rooms == nil {
		err = fmt.Errorf("reservation service not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateReservation", "room_id", params.RoomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("reservation_id", reservation.ID).InfoContext(ctx, "reservation created")
	}()

	if _, err = s.rooms.GetRoom(ctx, params.RoomID); err != nil {
		err = mapReservationRepoError(err)
		return
	}

	input := params.Input
	vErr := &ValidationError{}
	if strings.TrimSpace(input.OrganizerName) == "" {
		vErr.add("organizer_name", "organizer name is required")
	}
	if input.StartTime.IsZero() {
		vErr.add("start_time", "start time is required")
	}
	if input.EndTime.IsZero() {
		vErr.add("end_time", "end time is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	existing, lookupErr := s.reservations.ListOverlapping(ctx, params.RoomID, input.StartTime, input.EndTime)
	if lookupErr != nil {
		err = mapReservationRepoError(lookupErr)
		return
	}

	if err = booking.Validate(input.StartTime, input.EndTime, toIntervals(existing)); err != nil {
		return
	}

	record := persistence.Reservation{
		ID:            s.idGenerator(),
		RoomID:        params.RoomID,
		OrganizerName: strings.TrimSpace(input.OrganizerName),
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		CreatedAt:     s.now(),
	}

	if err = s.reservations.CreateReservation(ctx, record); err != nil {
		err = mapReservationRepoError(err)
		return
	}

	reservation = toReservation(record)
	return
}

// ListForRoom returns the room's reservations that have not yet finished,
// ordered by start time ascending. "Now" is evaluated at query time.
func (s *ReservationService) ListForRoom(ctx context.Context, roomID string) ([]Reservation, error) {
	if s == nil || s.reservations == nil || s.rooms == nil {
		return nil, fmt.Errorf("reservation service not configured")
	}

	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return nil, mapReservationRepoError(err)
	}

	records, err := s.reservations.ListReservations(ctx, roomID, s.now())
	if err != nil {
		return nil, mapReservationRepoError(err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	reservations := make([]Reservation, 0, len(records))
	for _, record := range records {
		reservations = append(reservations, toReservation(record))
	}
	return reservations, nil
}

// DeleteReservation removes a reservation unconditionally.
func (s *ReservationService) DeleteReservation(ctx context.Context, reservationID string) error {
	if s == nil || s.reservations == nil {
		return fmt.Errorf("reservation service not configured")
	}

	logger := s.loggerWith(ctx, "DeleteReservation", "reservation_id", reservationID)

	if err := s.reservations.DeleteReservation(ctx, reservationID); err != nil {
		err = mapReservationRepoError(err)
		logger.ErrorContext(ctx, "failed to delete reservation", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "reservation deleted")
	return nil
}

// GetReservation returns a single reservation by ID.
func (s *ReservationService) GetReservation(ctx context.Context, reservationID string) (Reservation, error) {
	if s == nil || s.reservations == nil {
		return Reservation{}, fmt.Errorf("reservation service not configured")
	}

	record, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return Reservation{}, mapReservationRepoError(err)
	}

	return toReservation(record), nil
}

func toIntervals(records []persistence.Reservation) []booking.Interval {
	if len(records) == 0 {
		return nil
	}
	intervals := make([]booking.Interval, 0, len(records))
	for _, record := range records {
		intervals = append(intervals, booking.Interval{
			ID:    record.ID,
			Start: record.StartTime,
			End:   record.EndTime,
		})
	}
	return intervals
}

func mapReservationRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrOverlap) {
		return &booking.RuleError{Reason: booking.ReasonOccupied}
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		return &booking.RuleError{Reason: booking.ReasonEndBeforeStart}
	}
	return err
}

func toReservation(record persistence.Reservation) Reservation {
	return Reservation{
		ID:            record.ID,
		RoomID:        record.RoomID,
		OrganizerName: record.OrganizerName,
		StartTime:     record.StartTime,
		EndTime:       record.EndTime,
		CreatedAt:     record.CreatedAt,
	}
}
