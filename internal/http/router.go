package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/room-booking/internal/application"
)

// RouterConfig bundles everything the HTTP layer needs. The UI handler
// is optional so the JSON API can run headless in tests.
type RouterConfig struct {
	Rooms        *application.RoomService
	Reservations *application.ReservationService
	Timezone     *time.Location
	Logger       *slog.Logger
	UI           http.Handler
}

// NewRouter wires the JSON API under /api and, when configured, the
// server rendered UI at the root.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := defaultLogger(cfg.Logger)

	roomHandler := NewRoomHandler(cfg.Rooms, cfg.Timezone, logger)
	reservationHandler := NewReservationHandler(cfg.Reservations, cfg.Timezone, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Route("/api", func(api chi.Router) {
		api.Route("/rooms", func(rooms chi.Router) {
			rooms.Get("/", roomHandler.List)
			rooms.Post("/", roomHandler.Create)
			rooms.Route("/{roomID}", func(room chi.Router) {
				room.Get("/", roomHandler.Get)
				room.Put("/", roomHandler.Update)
				room.Delete("/", roomHandler.Delete)
				room.Get("/reservations", reservationHandler.List)
				room.Post("/reservations", reservationHandler.Create)
			})
		})
		api.Delete("/reservations/{reservationID}", reservationHandler.Delete)
	})

	if cfg.UI != nil {
		r.Mount("/", cfg.UI)
	}

	return r
}
