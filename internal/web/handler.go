// Package web serves the browser UI. Pages are rendered on the server
// from embedded templates and submit plain HTML forms, so the UI works
// without any client side scripting. Rule violations surface with the
// same reason strings the JSON API uses.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/booking"
	"github.com/example/room-booking/internal/logging"
)

//go:embed templates/*.html
var templatesFS embed.FS

const timestampLayout = "2006-01-02T15:04"

type roomService interface {
	CreateRoom(ctx context.Context, input application.RoomInput) (application.Room, error)
	GetRoom(ctx context.Context, roomID string) (application.Room, error)
	DeleteRoom(ctx context.Context, roomID string) error
	ListRooms(ctx context.Context) ([]application.Room, error)
}

type reservationService interface {
	CreateReservation(ctx context.Context, params application.CreateReservationParams) (application.Reservation, error)
	GetReservation(ctx context.Context, reservationID string) (application.Reservation, error)
	ListForRoom(ctx context.Context, roomID string) ([]application.Reservation, error)
	DeleteReservation(ctx context.Context, reservationID string) error
}

type Handler struct {
	rooms        roomService
	reservations reservationService
	timezone     *time.Location
	logger       *slog.Logger
	templates    map[string]*template.Template
	router       chi.Router
}

func NewHandler(rooms roomService, reservations reservationService, timezone *time.Location, logger *slog.Logger) *Handler {
	if timezone == nil {
		timezone = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		rooms:        rooms,
		reservations: reservations,
		timezone:     timezone,
		logger:       logger,
		templates:    parseTemplates(),
	}

	r := chi.NewRouter()
	r.Get("/", h.listRooms)
	r.Get("/rooms/new", h.newRoomForm)
	r.Post("/rooms/new", h.createRoom)
	r.Get("/rooms/{roomID}", h.roomDetail)
	r.Post("/rooms/{roomID}", h.createReservation)
	r.Post("/rooms/{roomID}/delete", h.deleteRoom)
	r.Post("/reservations/{reservationID}/delete", h.deleteReservation)
	h.router = r

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func parseTemplates() map[string]*template.Template {
	pages := []string{"room_list", "room_form", "room_detail"}
	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		parsed[page] = template.Must(template.ParseFS(templatesFS,
			"templates/layout.html",
			"templates/"+page+".html",
		))
	}
	return parsed
}

func (h *Handler) log(ctx context.Context, operation string) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = h.logger
	}
	return logger.With("handler", "web", "operation", operation)
}

func (h *Handler) render(ctx context.Context, w http.ResponseWriter, page string, status int, data any) {
	tmpl, ok := h.templates[page]
	if !ok {
		h.log(ctx, "render").ErrorContext(ctx, "unknown template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log(ctx, "render").ErrorContext(ctx, "template execution failed", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type roomListData struct {
	Title string
	Rooms []application.Room
}

func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		h.log(r.Context(), "listRooms").ErrorContext(r.Context(), "room list failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(r.Context(), w, "room_list", http.StatusOK, roomListData{Title: "Meeting rooms", Rooms: rooms})
}

type roomFormData struct {
	Title    string
	Name     string
	Capacity string
	Error    string
}

func (h *Handler) newRoomForm(w http.ResponseWriter, r *http.Request) {
	h.render(r.Context(), w, "room_form", http.StatusOK, roomFormData{Title: "Add a room"})
}

func (h *Handler) createRoom(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	capacityRaw := strings.TrimSpace(r.PostFormValue("capacity"))
	capacity, _ := strconv.Atoi(capacityRaw)

	_, err := h.rooms.CreateRoom(r.Context(), application.RoomInput{Name: name, Capacity: capacity})
	if err != nil {
		h.log(r.Context(), "createRoom").ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.render(r.Context(), w, "room_form", http.StatusBadRequest, roomFormData{
			Title:    "Add a room",
			Name:     name,
			Capacity: capacityRaw,
			Error:    displayMessage(err),
		})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type reservationView struct {
	ID            string
	OrganizerName string
	StartTime     string
	EndTime       string
}

type roomDetailData struct {
	Title        string
	Room         application.Room
	Reservations []reservationView

	OrganizerName string
	StartValue    string
	EndValue      string
	Error         string
}

func (h *Handler) roomDetail(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	data, ok := h.loadRoomDetail(w, r, roomID)
	if !ok {
		return
	}
	h.render(r.Context(), w, "room_detail", http.StatusOK, data)
}

func (h *Handler) loadRoomDetail(w http.ResponseWriter, r *http.Request, roomID string) (roomDetailData, bool) {
	room, err := h.rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			http.NotFound(w, r)
			return roomDetailData{}, false
		}
		h.log(r.Context(), "roomDetail").ErrorContext(r.Context(), "room lookup failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return roomDetailData{}, false
	}

	reservations, err := h.reservations.ListForRoom(r.Context(), roomID)
	if err != nil {
		h.log(r.Context(), "roomDetail").ErrorContext(r.Context(), "reservation list failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return roomDetailData{}, false
	}

	views := make([]reservationView, 0, len(reservations))
	for _, reservation := range reservations {
		views = append(views, reservationView{
			ID:            reservation.ID,
			OrganizerName: reservation.OrganizerName,
			StartTime:     reservation.StartTime.In(h.timezone).Format(timestampLayout),
			EndTime:       reservation.EndTime.In(h.timezone).Format(timestampLayout),
		})
	}

	return roomDetailData{Title: room.Name, Room: room, Reservations: views}, true
}

func (h *Handler) createReservation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	roomID := chi.URLParam(r, "roomID")
	organizer := strings.TrimSpace(r.PostFormValue("organizer_name"))
	startRaw := strings.TrimSpace(r.PostFormValue("start_time"))
	endRaw := strings.TrimSpace(r.PostFormValue("end_time"))

	input := application.ReservationInput{OrganizerName: organizer}
	var parseErr error
	if startRaw != "" {
		input.StartTime, parseErr = time.ParseInLocation(timestampLayout, startRaw, h.timezone)
	}
	if parseErr == nil && endRaw != "" {
		input.EndTime, parseErr = time.ParseInLocation(timestampLayout, endRaw, h.timezone)
	}

	var createErr error
	if parseErr != nil {
		createErr = errors.New("times must be formatted as YYYY-MM-DDTHH:MM")
	} else {
		_, createErr = h.reservations.CreateReservation(r.Context(), application.CreateReservationParams{
			RoomID: roomID,
			Input:  input,
		})
	}

	if createErr != nil {
		if errors.Is(createErr, application.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log(r.Context(), "createReservation").ErrorContext(r.Context(), "reservation creation failed", "error", createErr, "error_kind", application.ErrorKind(createErr))

		data, ok := h.loadRoomDetail(w, r, roomID)
		if !ok {
			return
		}
		data.OrganizerName = organizer
		data.StartValue = startRaw
		data.EndValue = endRaw
		data.Error = displayMessage(createErr)
		h.render(r.Context(), w, "room_detail", http.StatusBadRequest, data)
		return
	}

	http.Redirect(w, r, "/rooms/"+roomID, http.StatusSeeOther)
}

func (h *Handler) deleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	if err := h.rooms.DeleteRoom(r.Context(), roomID); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log(r.Context(), "deleteRoom").ErrorContext(r.Context(), "room delete failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) deleteReservation(w http.ResponseWriter, r *http.Request) {
	reservationID := chi.URLParam(r, "reservationID")

	reservation, err := h.reservations.GetReservation(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log(r.Context(), "deleteReservation").ErrorContext(r.Context(), "reservation lookup failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.reservations.DeleteReservation(r.Context(), reservationID); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log(r.Context(), "deleteReservation").ErrorContext(r.Context(), "reservation delete failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/rooms/"+reservation.RoomID, http.StatusSeeOther)
}

// displayMessage flattens a service error into a single line suitable
// for a form banner.
func displayMessage(err error) string {
	var ruleErr *booking.RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr.Reason
	}

	if errors.Is(err, application.ErrDuplicateName) {
		return "a room with this name already exists"
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) && len(vErr.FieldErrors) > 0 {
		fields := make([]string, 0, len(vErr.FieldErrors))
		for field := range vErr.FieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, vErr.FieldErrors[field])
		}
		return strings.Join(parts, "; ")
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "something went wrong"
}
