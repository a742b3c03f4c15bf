package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/testfixtures"
)

func TestRoomRepository_CreateAndGet(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := testfixtures.NewRoomFixture(testfixtures.WithRoomName("Board Room"))
	if err := harness.Rooms.CreateRoom(ctx, room); err != nil {
		t.Fatalf("create room: %v", err)
	}

	stored, err := harness.Rooms.GetRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if stored.Name != "Board Room" || stored.Capacity != room.Capacity {
		t.Fatalf("unexpected room: %+v", stored)
	}
	if !stored.CreatedAt.Equal(room.CreatedAt.UTC()) {
		t.Fatalf("expected created_at %v, got %v", room.CreatedAt.UTC(), stored.CreatedAt)
	}
}

func TestRoomRepository_DuplicateName(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	first := testfixtures.NewRoomFixture(testfixtures.WithRoomName("Shared Name"))
	if err := harness.Rooms.CreateRoom(ctx, first); err != nil {
		t.Fatalf("create first room: %v", err)
	}

	second := testfixtures.NewRoomFixture(testfixtures.WithRoomName("Shared Name"))
	if err := harness.Rooms.CreateRoom(ctx, second); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRoomRepository_UpdateRoom(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := testfixtures.NewRoomFixture()
	if err := harness.Rooms.CreateRoom(ctx, room); err != nil {
		t.Fatalf("create room: %v", err)
	}

	room.Name = "Renamed"
	room.Capacity = 20
	if err := harness.Rooms.UpdateRoom(ctx, room); err != nil {
		t.Fatalf("update room: %v", err)
	}

	stored, err := harness.Rooms.GetRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if stored.Name != "Renamed" || stored.Capacity != 20 {
		t.Fatalf("unexpected room after update: %+v", stored)
	}

	missing := testfixtures.NewRoomFixture()
	missing.ID = "does-not-exist"
	if err := harness.Rooms.UpdateRoom(ctx, missing); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoomRepository_ListRoomsOrdersByName(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	for _, name := range []string{"Zebra", "Alpha", "Middle"} {
		room := testfixtures.NewRoomFixture(testfixtures.WithRoomName(name))
		if err := harness.Rooms.CreateRoom(ctx, room); err != nil {
			t.Fatalf("create room %s: %v", name, err)
		}
	}

	rooms, err := harness.Rooms.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(rooms))
	}
	if rooms[0].Name != "Alpha" || rooms[1].Name != "Middle" || rooms[2].Name != "Zebra" {
		t.Fatalf("unexpected order: %v, %v, %v", rooms[0].Name, rooms[1].Name, rooms[2].Name)
	}
}

func TestRoomRepository_DeleteRoomCascades(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := testfixtures.NewRoomFixture()
	if err := harness.Rooms.CreateRoom(ctx, room); err != nil {
		t.Fatalf("create room: %v", err)
	}

	reservation := testfixtures.NewReservationFixture(room.ID)
	if err := harness.Reservations.CreateReservation(ctx, reservation); err != nil {
		t.Fatalf("create reservation: %v", err)
	}

	if err := harness.Rooms.DeleteRoom(ctx, room.ID); err != nil {
		t.Fatalf("delete room: %v", err)
	}

	if _, err := harness.Rooms.GetRoom(ctx, room.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected room gone, got %v", err)
	}
	if _, err := harness.Reservations.GetReservation(ctx, reservation.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected reservation gone, got %v", err)
	}

	if err := harness.Rooms.DeleteRoom(ctx, room.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
