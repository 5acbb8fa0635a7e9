package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
)

type reservationService interface {
	CreateReservation(ctx context.Context, params application.CreateReservationParams) (application.Reservation, error)
	CancelReservation(ctx context.Context, params application.CancelReservationParams) (application.Reservation, error)
	GetReservation(ctx context.Context, principal application.Principal, reservationID string) (application.Reservation, error)
	ListMyReservations(ctx context.Context, principal application.Principal) (application.MyReservations, error)
}

type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

// Create handles POST /reservations.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "room_id", req.RoomID)

	reservation, err := h.service.CreateReservation(r.Context(), application.CreateReservationParams{
		Principal: principal,
		RoomID:    strings.TrimSpace(req.RoomID),
		Start:     start,
		End:       end,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("reservation_id", reservation.ID).InfoContext(r.Context(), "reservation created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, reservationResponse{Reservation: toReservationDTO(reservation)})
}

// Get handles GET /reservations/{id}.
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reservationID, ok := ReservationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(reservationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidReservationID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	reservation, err := h.service.GetReservation(r.Context(), principal, reservationID)
	if err != nil {
		h.log(r.Context(), "Get", "reservation_id", reservationID).ErrorContext(r.Context(), "reservation fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationResponse{Reservation: toReservationDTO(reservation)})
}

// Cancel handles DELETE /reservations/{id}. The row is kept; only its status
// changes. Repeating the call returns the same success.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reservationID, ok := ReservationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(reservationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidReservationID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Cancel", "principal_id", principal.UserID, "reservation_id", reservationID)

	reservation, err := h.service.CancelReservation(r.Context(), application.CancelReservationParams{
		Principal:     principal,
		ReservationID: reservationID,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation cancellation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "reservation cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationResponse{Reservation: toReservationDTO(reservation)})
}

// ListMine handles GET /my/reservations.
func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	logger := h.log(r.Context(), "ListMine", "principal_id", principal.UserID)
	grouped, err := h.service.ListMyReservations(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, myReservationsResponse{
		Current:  toReservationDTOs(grouped.Current),
		Upcoming: toReservationDTOs(grouped.Upcoming),
		Past:     toReservationDTOs(grouped.Past),
	})
}

type reservationRequest struct {
	RoomID string `json:"room_id"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

type reservationResponse struct {
	Reservation reservationDTO `json:"reservation"`
}

type myReservationsResponse struct {
	Current  []reservationDTO `json:"current"`
	Upcoming []reservationDTO `json:"upcoming"`
	Past     []reservationDTO `json:"past"`
}

type reservationDTO struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	UserID    string `json:"user_id"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toReservationDTO(reservation application.Reservation) reservationDTO {
	return reservationDTO{
		ID:        reservation.ID,
		RoomID:    reservation.RoomID,
		UserID:    reservation.UserID,
		Start:     reservation.Start.UTC().Format(time.RFC3339),
		End:       reservation.End.UTC().Format(time.RFC3339),
		Status:    string(reservation.Status),
		CreatedAt: reservation.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: reservation.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toReservationDTOs(reservations []application.Reservation) []reservationDTO {
	out := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		out = append(out, toReservationDTO(reservation))
	}
	return out
}

// parseRange decodes RFC3339 start and end instants from request payloads.
func parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(startRaw))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start must be an RFC3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, strings.TrimSpace(endRaw))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end must be an RFC3339 timestamp")
	}
	return start, end, nil
}
