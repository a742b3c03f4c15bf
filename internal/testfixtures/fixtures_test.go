package testfixtures

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	t.Run("defaults to the reference time", func(t *testing.T) {
		clock := NewClock(time.Time{})
		if !clock.Now().Equal(ReferenceTime()) {
			t.Fatalf("expected ReferenceTime, got %v", clock.Now())
		}
	})

	t.Run("advance and set move the clock", func(t *testing.T) {
		start := time.Date(2025, time.March, 14, 9, 26, 0, 0, time.UTC)
		clock := NewClock(start)

		updated := clock.Advance(90 * time.Minute)
		if !updated.Equal(start.Add(90 * time.Minute)) {
			t.Fatalf("advance returned %v", updated)
		}

		clock.Set(start.Add(2 * time.Hour))
		if got := clock.Now(); !got.Equal(start.Add(2 * time.Hour)) {
			t.Fatalf("expected %v, got %v", start.Add(2*time.Hour), got)
		}
	})

	t.Run("NowFunc tracks the clock", func(t *testing.T) {
		clock := NewClock(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
		nowFn := clock.NowFunc()

		clock.Advance(time.Minute)
		if got := nowFn(); !got.Equal(clock.Now()) {
			t.Fatalf("expected updated time %v, got %v", clock.Now(), got)
		}
	})
}

func TestIDGenerator(t *testing.T) {
	gen := NewIDGenerator("room")
	if got := gen.Next(); got != "room-1" {
		t.Fatalf("expected room-1, got %q", got)
	}
	if got := gen.NextFunc()(); got != "room-2" {
		t.Fatalf("expected room-2, got %q", got)
	}
}

func TestReservationFixturesDoNotOverlap(t *testing.T) {
	first := NewReservationFixture("room-1")
	second := NewReservationFixture("room-1")

	if first.EndTime.After(second.StartTime) && second.EndTime.After(first.StartTime) {
		t.Fatalf("fixtures overlap: %+v and %+v", first, second)
	}
}
