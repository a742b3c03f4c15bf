package sqlite

import (
	"log/slog"
)

// Storage bundles the SQLite connection pool with the repositories built on
// top of it. Open, Migrate, and Close cover the lifecycle main cares about.
type Storage struct {
	pool   *ConnectionPool
	logger *slog.Logger

	Rooms        *RoomRepository
	Reservations *ReservationRepository
}

// Open connects to the SQLite database identified by dsn.
func Open(dsn string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}

	return &Storage{
		pool:         pool,
		logger:       logger,
		Rooms:        NewRoomRepository(pool),
		Reservations: NewReservationRepository(pool),
	}, nil
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	return s.pool.Close()
}

// Pool exposes the connection pool for tests that need raw access.
func (s *Storage) Pool() *ConnectionPool {
	return s.pool
}
