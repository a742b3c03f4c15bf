package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/booking"
)

type stubRoomService struct {
	createFn func(ctx context.Context, input application.RoomInput) (application.Room, error)
	getFn    func(ctx context.Context, roomID string) (application.Room, error)
	updateFn func(ctx context.Context, params application.UpdateRoomParams) (application.Room, error)
	deleteFn func(ctx context.Context, roomID string) error
	listFn   func(ctx context.Context) ([]application.Room, error)
}

func (s *stubRoomService) CreateRoom(ctx context.Context, input application.RoomInput) (application.Room, error) {
	return s.createFn(ctx, input)
}

func (s *stubRoomService) GetRoom(ctx context.Context, roomID string) (application.Room, error) {
	return s.getFn(ctx, roomID)
}

func (s *stubRoomService) UpdateRoom(ctx context.Context, params application.UpdateRoomParams) (application.Room, error) {
	return s.updateFn(ctx, params)
}

func (s *stubRoomService) DeleteRoom(ctx context.Context, roomID string) error {
	return s.deleteFn(ctx, roomID)
}

func (s *stubRoomService) ListRooms(ctx context.Context) ([]application.Room, error) {
	return s.listFn(ctx)
}

type stubReservationService struct {
	createFn func(ctx context.Context, params application.CreateReservationParams) (application.Reservation, error)
	listFn   func(ctx context.Context, roomID string) ([]application.Reservation, error)
	deleteFn func(ctx context.Context, reservationID string) error
}

func (s *stubReservationService) CreateReservation(ctx context.Context, params application.CreateReservationParams) (application.Reservation, error) {
	return s.createFn(ctx, params)
}

func (s *stubReservationService) ListForRoom(ctx context.Context, roomID string) ([]application.Reservation, error) {
	return s.listFn(ctx, roomID)
}

func (s *stubReservationService) DeleteReservation(ctx context.Context, reservationID string) error {
	return s.deleteFn(ctx, reservationID)
}

func newTestRouter(rooms roomService, reservations reservationService, timezone *time.Location) http.Handler {
	roomHandler := NewRoomHandler(rooms, timezone, nil)
	reservationHandler := NewReservationHandler(reservations, timezone, nil)

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		api.Route("/rooms", func(roomsRoute chi.Router) {
			roomsRoute.Get("/", roomHandler.List)
			roomsRoute.Post("/", roomHandler.Create)
			roomsRoute.Route("/{roomID}", func(room chi.Router) {
				room.Get("/", roomHandler.Get)
				room.Put("/", roomHandler.Update)
				room.Delete("/", roomHandler.Delete)
				room.Get("/reservations", reservationHandler.List)
				room.Post("/reservations", reservationHandler.Create)
			})
		})
		api.Delete("/reservations/{reservationID}", reservationHandler.Delete)
	})
	return r
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestRoomHandlers(t *testing.T) {
	t.Parallel()

	sampleRoom := application.Room{
		ID:        "room-1",
		Name:      "Board Room",
		Capacity:  12,
		CreatedAt: time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC),
	}

	t.Run("create returns 201 with the room payload", func(t *testing.T) {
		t.Parallel()

		rooms := &stubRoomService{
			createFn: func(_ context.Context, input application.RoomInput) (application.Room, error) {
				if input.Name != "Board Room" || input.Capacity != 12 {
					t.Fatalf("unexpected input: %+v", input)
				}
				return sampleRoom, nil
			},
		}
		router := newTestRouter(rooms, &stubReservationService{}, time.UTC)

		req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(`{"name":"Board Room","capacity":12}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		var body roomResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Room.ID != "room-1" || body.Room.Name != "Board Room" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})

	t.Run("create rejects malformed JSON with 400", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&stubRoomService{}, &stubReservationService{}, time.UTC)

		req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(`{"name":`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("duplicate name maps to 400", func(t *testing.T) {
		t.Parallel()

		rooms := &stubRoomService{
			createFn: func(context.Context, application.RoomInput) (application.Room, error) {
				return application.Room{}, application.ErrDuplicateName
			},
		}
		router := newTestRouter(rooms, &stubReservationService{}, time.UTC)

		req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(`{"name":"Board Room","capacity":12}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if body := decodeErrorBody(t, rec); body.Error != "a room with this name already exists" {
			t.Fatalf("unexpected error message: %q", body.Error)
		}
	})

	t.Run("validation error includes field details", func(t *testing.T) {
		t.Parallel()

		vErr := &application.ValidationError{FieldErrors: map[string]string{"capacity": "capacity must be positive"}}
		rooms := &stubRoomService{
			createFn: func(context.Context, application.RoomInput) (application.Room, error) {
				return application.Room{}, vErr
			},
		}
		router := newTestRouter(rooms, &stubReservationService{}, time.UTC)

		req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(`{"name":"Board Room","capacity":0}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		body := decodeErrorBody(t, rec)
		if body.Fields["capacity"] != "capacity must be positive" {
			t.Fatalf("unexpected fields: %+v", body.Fields)
		}
	})

	t.Run("get maps missing room to 404", func(t *testing.T) {
		t.Parallel()

		rooms := &stubRoomService{
			getFn: func(context.Context, string) (application.Room, error) {
				return application.Room{}, application.ErrNotFound
			},
		}
		router := newTestRouter(rooms, &stubReservationService{}, time.UTC)

		req := httptest.NewRequest(http.MethodGet, "/api/rooms/missing", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("delete returns 204 on success", func(t *testing.T) {
		t.Parallel()

		rooms := &stubRoomService{
			deleteFn: func(_ context.Context, roomID string) error {
				if roomID != "room-1" {
					t.Fatalf("unexpected room id: %q", roomID)
				}
				return nil
			},
		}
		router := newTestRouter(rooms, &stubReservationService{}, time.UTC)

		req := httptest.NewRequest(http.MethodDelete, "/api/rooms/room-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("list returns rooms", func(t *testing.T) {
		t.Parallel()

		rooms := &stubRoomService{
			listFn: func(context.Context) ([]application.Room, error) {
				return []application.Room{sampleRoom}, nil
			},
		}
		router := newTestRouter(rooms, &stubReservationService{}, time.UTC)

		req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body listRoomsResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(body.Rooms) != 1 || body.Rooms[0].Name != "Board Room" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})
}

func TestReservationHandlers(t *testing.T) {
	t.Parallel()

	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	t.Run("create parses wall clock timestamps in the configured timezone", func(t *testing.T) {
		t.Parallel()

		reservations := &stubReservationService{
			createFn: func(_ context.Context, params application.CreateReservationParams) (application.Reservation, error) {
				wantStart := time.Date(2025, 8, 18, 10, 0, 0, 0, madrid)
				if !params.Input.StartTime.Equal(wantStart) {
					t.Fatalf("expected start %v, got %v", wantStart, params.Input.StartTime)
				}
				return application.Reservation{
					ID:            "res-1",
					RoomID:        params.RoomID,
					OrganizerName: params.Input.OrganizerName,
					StartTime:     params.Input.StartTime,
					EndTime:       params.Input.EndTime,
					CreatedAt:     time.Date(2025, 8, 17, 9, 0, 0, 0, time.UTC),
				}, nil
			},
		}
		router := newTestRouter(&stubRoomService{}, reservations, madrid)

		payload := `{"organizer_name":"Dana","start_time":"2025-08-18T10:00","end_time":"2025-08-18T11:00"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rooms/room-1/reservations", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		var body reservationResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Reservation.StartTime != "2025-08-18T10:00" || body.Reservation.EndTime != "2025-08-18T11:00" {
			t.Fatalf("unexpected window: %+v", body.Reservation)
		}
	})

	t.Run("create rejects unparseable timestamps with 400", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(&stubRoomService{}, &stubReservationService{}, time.UTC)

		payload := `{"organizer_name":"Dana","start_time":"yesterday","end_time":"2025-08-18T11:00"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rooms/room-1/reservations", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("overlap reason string is returned verbatim", func(t *testing.T) {
		t.Parallel()

		reservations := &stubReservationService{
			createFn: func(context.Context, application.CreateReservationParams) (application.Reservation, error) {
				return application.Reservation{}, &booking.RuleError{Reason: booking.ReasonOccupied}
			},
		}
		router := newTestRouter(&stubRoomService{}, reservations, time.UTC)

		payload := `{"organizer_name":"Dana","start_time":"2025-08-18T10:00","end_time":"2025-08-18T11:00"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rooms/room-1/reservations", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if body := decodeErrorBody(t, rec); body.Error != "the room is already occupied in this time range" {
			t.Fatalf("unexpected error message: %q", body.Error)
		}
	})

	t.Run("list returns upcoming reservations for the room", func(t *testing.T) {
		t.Parallel()

		reservations := &stubReservationService{
			listFn: func(_ context.Context, roomID string) ([]application.Reservation, error) {
				if roomID != "room-1" {
					t.Fatalf("unexpected room id: %q", roomID)
				}
				return []application.Reservation{{
					ID:            "res-1",
					RoomID:        roomID,
					OrganizerName: "Dana",
					StartTime:     time.Date(2025, 8, 18, 10, 0, 0, 0, time.UTC),
					EndTime:       time.Date(2025, 8, 18, 11, 0, 0, 0, time.UTC),
				}}, nil
			},
		}
		router := newTestRouter(&stubRoomService{}, reservations, time.UTC)

		req := httptest.NewRequest(http.MethodGet, "/api/rooms/room-1/reservations", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body listReservationsResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(body.Reservations) != 1 || body.Reservations[0].OrganizerName != "Dana" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})

	t.Run("delete maps missing reservation to 404", func(t *testing.T) {
		t.Parallel()

		reservations := &stubReservationService{
			deleteFn: func(context.Context, string) error {
				return application.ErrNotFound
			},
		}
		router := newTestRouter(&stubRoomService{}, reservations, time.UTC)

		req := httptest.NewRequest(http.MethodDelete, "/api/reservations/res-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
