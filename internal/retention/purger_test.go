package retention

import (
	"context"
	"errors"
	"testing"
	"time"
)

type purgerStub struct {
	cutoffs []time.Time
	deleted int64
	err     error
}

func (s *purgerStub) DeleteFinishedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.deleted, s.err
}

func TestPurgerRunOnce(t *testing.T) {
	t.Parallel()

	t.Run("deletes reservations older than the retention age", func(t *testing.T) {
		t.Parallel()

		stub := &purgerStub{deleted: 3}
		purger := NewPurger(stub, 30*24*time.Hour, "@daily", nil)
		now := time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)
		purger.now = func() time.Time { return now }

		purger.RunOnce(context.Background())

		if len(stub.cutoffs) != 1 {
			t.Fatalf("expected one purge pass, got %d", len(stub.cutoffs))
		}
		want := now.Add(-30 * 24 * time.Hour)
		if !stub.cutoffs[0].Equal(want) {
			t.Fatalf("expected cutoff %v, got %v", want, stub.cutoffs[0])
		}
	})

	t.Run("does nothing when retention is disabled", func(t *testing.T) {
		t.Parallel()

		stub := &purgerStub{}
		purger := NewPurger(stub, 0, "@daily", nil)

		purger.RunOnce(context.Background())

		if len(stub.cutoffs) != 0 {
			t.Fatalf("expected no purge pass, got %d", len(stub.cutoffs))
		}
	})

	t.Run("swallows repository errors", func(t *testing.T) {
		t.Parallel()

		stub := &purgerStub{err: errors.New("disk full")}
		purger := NewPurger(stub, time.Hour, "@daily", nil)

		purger.RunOnce(context.Background())

		if len(stub.cutoffs) != 1 {
			t.Fatalf("expected purge attempt despite error, got %d", len(stub.cutoffs))
		}
	})
}

func TestPurgerStart(t *testing.T) {
	t.Parallel()

	t.Run("is a no-op when disabled", func(t *testing.T) {
		t.Parallel()

		purger := NewPurger(&purgerStub{}, 0, "@daily", nil)
		if err := purger.Start(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		purger.Stop()
	})

	t.Run("rejects invalid schedules", func(t *testing.T) {
		t.Parallel()

		purger := NewPurger(&purgerStub{}, time.Hour, "not-a-schedule", nil)
		if err := purger.Start(context.Background()); err == nil {
			t.Fatal("expected schedule parse error")
		}
	})
}
