package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// RoomRepository captures the persistence operations needed by the service.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room persistence.Room) error
	UpdateRoom(ctx context.Context, room persistence.Room) error
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
	ListRooms(ctx context.Context) ([]persistence.Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// RoomService orchestrates validation and persistence for the room directory.
type RoomService struct {
	rooms       RoomRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms RoomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{rooms: rooms, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates input and persists a new room.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomInput) (room Room, err error) {
	if s == nil || s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom", "room_name", strings.TrimSpace(input.Name))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	vErr := validateRoomInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	createdAt := s.now()
	record := persistence.Room{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Capacity:  input.Capacity,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if err = s.rooms.CreateRoom(ctx, record); err != nil {
		err = mapRoomRepoError(err)
		return
	}

	room = toRoom(record)
	return
}

// GetRoom returns a single room by ID.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}

	record, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return Room{}, mapRoomRepoError(err)
	}

	return toRoom(record), nil
}

// UpdateRoom validates input and updates an existing room.
func (s *RoomService) UpdateRoom(ctx context.Context, params UpdateRoomParams) (room Room, err error) {
	if s == nil || s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoom", "room_id", params.RoomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room updated")
	}()

	var existing persistence.Room
	existing, err = s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRoomRepoError(err)
		return
	}

	vErr := validateRoomInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Capacity = params.Input.Capacity
	updated.UpdatedAt = s.now()

	if err = s.rooms.UpdateRoom(ctx, updated); err != nil {
		err = mapRoomRepoError(err)
		return
	}

	room = toRoom(updated)
	return
}

// DeleteRoom removes a room and, through the repository, every reservation
// that referenced it.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID string) error {
	if s == nil || s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteRoom", "room_id", roomID)

	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		err = mapRoomRepoError(err)
		logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "room deleted")
	return nil
}

// ListRooms returns the room directory ordered by name.
func (s *RoomService) ListRooms(ctx context.Context) ([]Room, error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room repository not configured")
	}

	records, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRoomRepoError(err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rooms := make([]Room, 0, len(records))
	for _, record := range records {
		rooms = append(rooms, toRoom(record))
	}
	return rooms, nil
}

func validateRoomInput(input RoomInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}

	return vErr
}

func mapRoomRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrDuplicateName
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("capacity", "capacity must be positive")
		return vErr
	}
	return err
}

func toRoom(record persistence.Room) Room {
	return Room{
		ID:        record.ID,
		Name:      record.Name,
		Capacity:  record.Capacity,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
