package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/room-booking/internal/application"
)

// timestampLayout is the wall clock format accepted and emitted by the
// API for reservation windows. All timestamps are interpreted in the
// single timezone the server is configured with.
const timestampLayout = "2006-01-02T15:04"

var (
	errInvalidStart = errors.New("start_time must be formatted as YYYY-MM-DDTHH:MM")
	errInvalidEnd   = errors.New("end_time must be formatted as YYYY-MM-DDTHH:MM")
)

type reservationService interface {
	CreateReservation(ctx context.Context, params application.CreateReservationParams) (application.Reservation, error)
	ListForRoom(ctx context.Context, roomID string) ([]application.Reservation, error)
	DeleteReservation(ctx context.Context, reservationID string) error
}

type ReservationHandler struct {
	service   reservationService
	responder responder
	timezone  *time.Location
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, timezone *time.Location, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	if timezone == nil {
		timezone = time.UTC
	}
	return &ReservationHandler{service: service, responder: newResponder(base), timezone: timezone, logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := strings.TrimSpace(chi.URLParam(r, "roomID"))
	if roomID == "" {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for reservation")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "room_id", roomID)

	input, err := req.toInput(h.timezone)
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation request rejected", "error", err, "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	reservation, err := h.service.CreateReservation(r.Context(), application.CreateReservationParams{
		RoomID: roomID,
		Input:  input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("reservation_id", reservation.ID).InfoContext(r.Context(), "reservation created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, reservationResponse{Reservation: toReservationDTO(reservation, h.timezone)})
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := strings.TrimSpace(chi.URLParam(r, "roomID"))
	if roomID == "" {
		h.log(r.Context(), "List", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for reservation list")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	logger := h.log(r.Context(), "List", "room_id", roomID)

	reservations, err := h.service.ListForRoom(r.Context(), roomID)
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(reservations)).InfoContext(r.Context(), "reservations listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listReservationsResponse{Reservations: toReservationDTOs(reservations, h.timezone)})
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reservationID := strings.TrimSpace(chi.URLParam(r, "reservationID"))
	if reservationID == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing reservation id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidReservationID)
		return
	}

	logger := h.log(r.Context(), "Delete", "reservation_id", reservationID)
	if err := h.service.DeleteReservation(r.Context(), reservationID); err != nil {
		logger.ErrorContext(r.Context(), "reservation delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "reservation deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type reservationRequest struct {
	OrganizerName string `json:"organizer_name"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

func (r reservationRequest) toInput(timezone *time.Location) (application.ReservationInput, error) {
	start, err := parseTimestamp(r.StartTime, timezone)
	if err != nil {
		return application.ReservationInput{}, errInvalidStart
	}
	end, err := parseTimestamp(r.EndTime, timezone)
	if err != nil {
		return application.ReservationInput{}, errInvalidEnd
	}
	return application.ReservationInput{
		OrganizerName: strings.TrimSpace(r.OrganizerName),
		StartTime:     start,
		EndTime:       end,
	}, nil
}

func parseTimestamp(value string, timezone *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	if ts, err := time.ParseInLocation(timestampLayout, trimmed, timezone); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, trimmed)
}

type reservationResponse struct {
	Reservation reservationDTO `json:"reservation"`
}

type listReservationsResponse struct {
	Reservations []reservationDTO `json:"reservations"`
}

type reservationDTO struct {
	ID            string `json:"id"`
	RoomID        string `json:"room_id"`
	OrganizerName string `json:"organizer_name"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	CreatedAt     string `json:"created_at"`
}

func toReservationDTO(reservation application.Reservation, timezone *time.Location) reservationDTO {
	return reservationDTO{
		ID:            reservation.ID,
		RoomID:        reservation.RoomID,
		OrganizerName: reservation.OrganizerName,
		StartTime:     reservation.StartTime.In(timezone).Format(timestampLayout),
		EndTime:       reservation.EndTime.In(timezone).Format(timestampLayout),
		CreatedAt:     reservation.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toReservationDTOs(reservations []application.Reservation, timezone *time.Location) []reservationDTO {
	if len(reservations) == 0 {
		return nil
	}
	out := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		out = append(out, toReservationDTO(reservation, timezone))
	}
	return out
}
