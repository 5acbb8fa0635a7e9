package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
)

type availabilityService interface {
	DailyGrid(ctx context.Context, params application.DailyGridParams) (application.DailyGrid, error)
	RoomDay(ctx context.Context, params application.RoomDayParams) (application.RoomDay, error)
}

type AvailabilityHandler struct {
	service   availabilityService
	responder responder
	logger    *slog.Logger
}

func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	base := defaultLogger(logger)
	return &AvailabilityHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AvailabilityHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AvailabilityHandler", operation, attrs...)
}

// Grid handles GET /availability?date=YYYY-MM-DD. The date is a calendar day;
// when absent it defaults to today in the booking zone.
func (h *AvailabilityHandler) Grid(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, err := parseDateParam(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Grid", "date", dateLabel(date))

	grid, err := h.service.DailyGrid(r.Context(), application.DailyGridParams{Date: date})
	if err != nil {
		logger.ErrorContext(r.Context(), "grid computation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toGridResponse(grid))
}

// RoomDay handles GET /rooms/{id}/availability?date=YYYY-MM-DD&slot_minutes=N.
func (h *AvailabilityHandler) RoomDay(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	date, err := parseDateParam(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	slotMinutes := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("slot_minutes")); raw != "" {
		slotMinutes, err = strconv.Atoi(raw)
		if err != nil || slotMinutes <= 0 {
			h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
				Message: "slot_minutes must be a positive integer",
			})
			return
		}
	}

	logger := h.log(r.Context(), "RoomDay", "room_id", roomID, "date", dateLabel(date))

	day, err := h.service.RoomDay(r.Context(), application.RoomDayParams{
		RoomID:      roomID,
		Date:        date,
		SlotMinutes: slotMinutes,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room availability failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRoomDayResponse(day))
}

// parseDateParam reads the date query parameter as a calendar day. A zero
// time means the parameter was absent; the service then falls back to the
// current day in the booking zone.
func parseDateParam(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return date, nil
}

func dateLabel(date time.Time) string {
	if date.IsZero() {
		return "today"
	}
	return date.Format("2006-01-02")
}

type gridResponse struct {
	Date  string        `json:"date"`
	Rooms []roomGridDTO `json:"rooms"`
}

type roomGridDTO struct {
	Room  roomDTO       `json:"room"`
	Slots []gridSlotDTO `json:"slots"`
}

type gridSlotDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
	State string `json:"state"`
}

func toGridResponse(grid application.DailyGrid) gridResponse {
	out := gridResponse{Date: grid.Date.Format("2006-01-02")}
	for _, room := range grid.Rooms {
		row := roomGridDTO{Room: toRoomDTO(room.Room)}
		for _, slot := range room.Slots {
			row.Slots = append(row.Slots, gridSlotDTO{
				ID:    slot.ID,
				Label: slot.Label,
				Start: slot.Start.UTC().Format(time.RFC3339),
				End:   slot.End.UTC().Format(time.RFC3339),
				State: string(slot.State),
			})
		}
		out.Rooms = append(out.Rooms, row)
	}
	return out
}

type roomDayResponse struct {
	RoomID string        `json:"room_id"`
	Date   string        `json:"date"`
	Free   []freeSlotDTO `json:"free"`
}

type freeSlotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toRoomDayResponse(day application.RoomDay) roomDayResponse {
	out := roomDayResponse{
		RoomID: day.RoomID,
		Date:   day.Date.Format("2006-01-02"),
		Free:   make([]freeSlotDTO, 0, len(day.Free)),
	}
	for _, slot := range day.Free {
		out.Free = append(out.Free, freeSlotDTO{
			Start: slot.Start.UTC().Format(time.RFC3339),
			End:   slot.End.UTC().Format(time.RFC3339),
		})
	}
	return out
}
