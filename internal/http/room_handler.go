package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
)

type roomService interface {
	CreateRoom(ctx context.Context, params application.CreateRoomParams) (application.Room, error)
	UpdateRoom(ctx context.Context, params application.UpdateRoomParams) (application.Room, error)
	DeleteRoom(ctx context.Context, principal application.Principal, roomID string) error
	GetRoom(ctx context.Context, principal application.Principal, roomID string) (application.Room, error)
	ListRooms(ctx context.Context, principal application.Principal) ([]application.Room, error)
	SetOpeningHour(ctx context.Context, params application.SetOpeningHourParams) (application.OpeningHour, error)
	ListOpeningHours(ctx context.Context, principal application.Principal, roomID string) ([]application.OpeningHour, error)
	ClearOpeningHour(ctx context.Context, principal application.Principal, roomID string, weekday time.Weekday) error
	DeclareBlackout(ctx context.Context, params application.DeclareBlackoutParams) (application.Blackout, error)
	ListBlackouts(ctx context.Context, principal application.Principal, roomID string) ([]application.Blackout, error)
	RemoveBlackout(ctx context.Context, principal application.Principal, blackoutID string) error
}

type RoomHandler struct {
	service   roomService
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	room, err := h.service.CreateRoom(r.Context(), application.CreateRoomParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_id", room.ID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "room_id", roomID)

	room, err := h.service.UpdateRoom(r.Context(), application.UpdateRoomParams{
		Principal: principal,
		RoomID:    roomID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "room_id", roomID)
	if err := h.service.DeleteRoom(r.Context(), principal, roomID); err != nil {
		logger.ErrorContext(r.Context(), "room delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	room, err := h.service.GetRoom(r.Context(), principal, roomID)
	if err != nil {
		h.log(r.Context(), "Get", "room_id", roomID).ErrorContext(r.Context(), "room fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)
	rooms, err := h.service.ListRooms(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rooms)).InfoContext(r.Context(), "rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

// SetOpeningHour handles PUT /rooms/{id}/hours.
func (h *RoomHandler) SetOpeningHour(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req openingHourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetOpeningHour", "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode opening hour request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetOpeningHour", "principal_id", principal.UserID, "room_id", roomID)

	hour, err := h.service.SetOpeningHour(r.Context(), application.SetOpeningHourParams{
		Principal: principal,
		RoomID:    roomID,
		Input: application.OpeningHourInput{
			Weekday:   time.Weekday(req.Weekday),
			OpenTime:  strings.TrimSpace(req.OpenTime),
			CloseTime: strings.TrimSpace(req.CloseTime),
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "opening hour update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "opening hour set")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, openingHourResponse{OpeningHour: toOpeningHourDTO(hour)})
}

// ListOpeningHours handles GET /rooms/{id}/hours.
func (h *RoomHandler) ListOpeningHours(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	hours, err := h.service.ListOpeningHours(r.Context(), principal, roomID)
	if err != nil {
		h.log(r.Context(), "ListOpeningHours", "room_id", roomID).ErrorContext(r.Context(), "opening hour list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]openingHourDTO, 0, len(hours))
	for _, hour := range hours {
		out = append(out, toOpeningHourDTO(hour))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listOpeningHoursResponse{OpeningHours: out})
}

// ClearOpeningHour handles DELETE /rooms/{id}/hours/{weekday}.
func (h *RoomHandler) ClearOpeningHour(w http.ResponseWriter, r *http.Request, weekdayRaw string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	weekday, err := strconv.Atoi(weekdayRaw)
	if err != nil || weekday < 0 || weekday > 6 {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
			Message: "weekday must be between 0 (Sunday) and 6 (Saturday)",
		})
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "ClearOpeningHour", "principal_id", principal.UserID, "room_id", roomID, "weekday", weekday)

	if err := h.service.ClearOpeningHour(r.Context(), principal, roomID, time.Weekday(weekday)); err != nil {
		logger.ErrorContext(r.Context(), "opening hour clear failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "opening hour cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// DeclareBlackout handles POST /rooms/{id}/blackouts.
func (h *RoomHandler) DeclareBlackout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req blackoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "DeclareBlackout", "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode blackout request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "DeclareBlackout", "principal_id", principal.UserID, "room_id", roomID)

	blackout, err := h.service.DeclareBlackout(r.Context(), application.DeclareBlackoutParams{
		Principal: principal,
		RoomID:    roomID,
		Input: application.BlackoutInput{
			Start:  start,
			End:    end,
			Reason: strings.TrimSpace(req.Reason),
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "blackout declaration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("blackout_id", blackout.ID).InfoContext(r.Context(), "blackout declared")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, blackoutResponse{Blackout: toBlackoutDTO(blackout)})
}

// ListBlackouts handles GET /rooms/{id}/blackouts.
func (h *RoomHandler) ListBlackouts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	blackouts, err := h.service.ListBlackouts(r.Context(), principal, roomID)
	if err != nil {
		h.log(r.Context(), "ListBlackouts", "room_id", roomID).ErrorContext(r.Context(), "blackout list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]blackoutDTO, 0, len(blackouts))
	for _, blackout := range blackouts {
		out = append(out, toBlackoutDTO(blackout))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBlackoutsResponse{Blackouts: out})
}

// RemoveBlackout handles DELETE /blackouts/{id}.
func (h *RoomHandler) RemoveBlackout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	blackoutID, ok := BlackoutIDFromContext(r.Context())
	if !ok || strings.TrimSpace(blackoutID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBlackoutID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "RemoveBlackout", "principal_id", principal.UserID, "blackout_id", blackoutID)

	if err := h.service.RemoveBlackout(r.Context(), principal, blackoutID); err != nil {
		logger.ErrorContext(r.Context(), "blackout removal failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "blackout removed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type roomRequest struct {
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	Equipment []string `json:"equipment"`
	Active    *bool    `json:"active"`
}

func (r roomRequest) toInput() application.RoomInput {
	return application.RoomInput{
		Name:      strings.TrimSpace(r.Name),
		Capacity:  r.Capacity,
		Equipment: r.Equipment,
		Active:    r.Active,
	}
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type roomDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	Equipment []string `json:"equipment,omitempty"`
	Active    bool     `json:"active"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toRoomDTO(room application.Room) roomDTO {
	return roomDTO{
		ID:        room.ID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		Equipment: room.Equipment,
		Active:    room.Active,
		CreatedAt: room.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: room.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toRoomDTOs(rooms []application.Room) []roomDTO {
	if len(rooms) == 0 {
		return nil
	}
	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomDTO(room))
	}
	return out
}

type openingHourRequest struct {
	Weekday   int    `json:"weekday"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type openingHourResponse struct {
	OpeningHour openingHourDTO `json:"opening_hour"`
}

type listOpeningHoursResponse struct {
	OpeningHours []openingHourDTO `json:"opening_hours"`
}

type openingHourDTO struct {
	RoomID    string `json:"room_id"`
	Weekday   int    `json:"weekday"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

func toOpeningHourDTO(hour application.OpeningHour) openingHourDTO {
	return openingHourDTO{
		RoomID:    hour.RoomID,
		Weekday:   int(hour.Weekday),
		OpenTime:  hour.OpenTime,
		CloseTime: hour.CloseTime,
	}
}

type blackoutRequest struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Reason string `json:"reason"`
}

type blackoutResponse struct {
	Blackout blackoutDTO `json:"blackout"`
}

type listBlackoutsResponse struct {
	Blackouts []blackoutDTO `json:"blackouts"`
}

type blackoutDTO struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
}

func toBlackoutDTO(blackout application.Blackout) blackoutDTO {
	return blackoutDTO{
		ID:        blackout.ID,
		RoomID:    blackout.RoomID,
		Start:     blackout.Start.UTC().Format(time.RFC3339),
		End:       blackout.End.UTC().Format(time.RFC3339),
		Reason:    blackout.Reason,
		CreatedAt: blackout.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
