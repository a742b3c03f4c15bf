package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration pairs a sequential version with the SQL applying it. Versions are
// tracked in the schema_migrations table so reopening an existing database is
// a no-op.
type migration struct {
	Version     string
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     "001",
		Description: "create rooms table",
		SQL: `
			CREATE TABLE IF NOT EXISTS rooms (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				capacity INTEGER NOT NULL CHECK (capacity > 0),
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);
		`,
	},
	{
		Version:     "002",
		Description: "create reservations table",
		SQL: `
			CREATE TABLE IF NOT EXISTS reservations (
				id TEXT PRIMARY KEY,
				room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
				organizer_name TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				created_at TEXT NOT NULL,
				CHECK (start_time < end_time)
			);
			CREATE INDEX IF NOT EXISTS idx_reservations_room_window
				ON reservations (room_id, start_time, end_time);
		`,
	},
}

// Migrate applies all pending migrations in sequential order.
func (s *Storage) Migrate(ctx context.Context) error {
	if err := s.initVersionTable(ctx); err != nil {
		return fmt.Errorf("failed to initialize version table: %w", err)
	}

	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("failed to read applied versions: %w", err)
	}

	for _, m := range migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}

		start := time.Now()
		err := s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("migration %s (%s): %w", m.Version, m.Description, err)
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (version, applied_at, execution_ms) VALUES (?, ?, ?)",
				m.Version,
				time.Now().UTC().Format(time.RFC3339),
				time.Since(start).Milliseconds(),
			)
			return err
		})
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "migration applied",
			"version", m.Version,
			"description", m.Description,
			"duration", time.Since(start),
		)
	}

	return nil
}

func (s *Storage) initVersionTable(ctx context.Context) error {
	_, err := s.pool.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL,
			execution_ms INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

func (s *Storage) appliedVersions(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = struct{}{}
	}

	return applied, rows.Err()
}
