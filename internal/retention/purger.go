// Package retention removes reservations that ended long ago so the
// database does not grow without bound. The purge runs on a cron
// schedule and keeps everything younger than the configured age.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type reservationPurger interface {
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Purger struct {
	repo     reservationPurger
	age      time.Duration
	schedule string
	now      func() time.Time
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewPurger builds a purger that deletes reservations whose end time is
// older than age. An age of zero disables purging entirely.
func NewPurger(repo reservationPurger, age time.Duration, schedule string, logger *slog.Logger) *Purger {
	if logger == nil {
		logger = slog.Default()
	}
	if schedule == "" {
		schedule = "@daily"
	}
	return &Purger{
		repo:     repo,
		age:      age,
		schedule: schedule,
		now:      time.Now,
		logger:   logger.With("service", "RetentionPurger"),
	}
}

// Start registers the purge job and launches the cron scheduler. It is
// a no-op when retention is disabled.
func (p *Purger) Start(ctx context.Context) error {
	if p == nil || p.age <= 0 {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(p.schedule, func() { p.RunOnce(ctx) }); err != nil {
		return err
	}
	p.cron = c
	c.Start()
	p.logger.InfoContext(ctx, "retention purge scheduled", "schedule", p.schedule, "age", p.age)
	return nil
}

// Stop halts the scheduler and waits for a running purge to finish.
func (p *Purger) Stop() {
	if p == nil || p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
}

// RunOnce performs a single purge pass. Exposed so the composition root
// can trigger an immediate sweep at startup.
func (p *Purger) RunOnce(ctx context.Context) {
	if p == nil || p.age <= 0 {
		return
	}

	cutoff := p.now().Add(-p.age)
	deleted, err := p.repo.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		p.logger.ErrorContext(ctx, "retention purge failed", "error", err, "cutoff", cutoff)
		return
	}
	if deleted > 0 {
		p.logger.InfoContext(ctx, "expired reservations purged", "deleted", deleted, "cutoff", cutoff)
	}
}
