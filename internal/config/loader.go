package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the booking
// service.
type Config struct {
	HTTPPort  int
	SQLiteDSN string
	// Timezone is the single zone wall-clock timestamps are interpreted and
	// presented in.
	Timezone *time.Location
	// RetentionAge is how long finished reservations are kept before the
	// purge job removes them. Zero disables the job.
	RetentionAge time.Duration
	// RetentionSchedule is the cron expression driving the purge job.
	RetentionSchedule string
}

// Load parses configuration values from a .env file (when present) and the
// process environment, applying defaults for optional fields and collecting
// invalid entries into one error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:          8080,
		SQLiteDSN:         "file:roombook.db?_foreign_keys=on",
		Timezone:          time.UTC,
		RetentionSchedule: "@daily",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ROOMBOOK_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ROOMBOOK_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ROOMBOOK_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if zone := strings.TrimSpace(os.Getenv("ROOMBOOK_TIMEZONE")); zone != "" {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			invalid = append(invalid, "ROOMBOOK_TIMEZONE")
		} else {
			cfg.Timezone = loc
		}
	}

	if ageValue := strings.TrimSpace(os.Getenv("ROOMBOOK_RETENTION")); ageValue != "" {
		age, err := time.ParseDuration(ageValue)
		if err != nil || age < 0 {
			invalid = append(invalid, "ROOMBOOK_RETENTION")
		} else {
			cfg.RetentionAge = age
		}
	}

	if schedule := strings.TrimSpace(os.Getenv("ROOMBOOK_RETENTION_SCHEDULE")); schedule != "" {
		cfg.RetentionSchedule = schedule
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
