package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
)

var (
	errBadRequestBody       = errors.New("invalid request body")
	errInvalidRoomID        = errors.New("invalid room id")
	errInvalidUserID        = errors.New("invalid user id")
	errInvalidReservationID = errors.New("invalid reservation id")
	errInvalidBlackoutID    = errors.New("invalid blackout id")
	errInvalidDate          = errors.New("date must be in YYYY-MM-DD format")
	errMissingSessionToken  = errors.New("session token is required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps application errors to HTTP responses. Rejections
// about the request itself become 400, rejections about current room or user
// state become 409.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var rejErr *application.RejectionError
	if errors.As(err, &rejErr) {
		status := http.StatusConflict
		if rejErr.IsInput() {
			status = http.StatusBadRequest
		}
		r.writeJSON(ctx, w, status, errorResponse{
			ErrorCode: string(rejErr.Code),
			Message:   rejErr.Message,
		})
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "you do not have permission to perform this operation",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "the requested resource was not found"})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "the resource already exists"})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "the request contains invalid fields",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "an internal server error occurred"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
