package http

import (
	"context"
	"log/slog"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
	"github.com/Nakotex7906/BookFronteraBack/internal/logging"
)

type contextKey string

const (
	principalContextKey     contextKey = "principal"
	roomIDContextKey        contextKey = "room_id"
	userIDContextKey        contextKey = "user_id"
	reservationIDContextKey contextKey = "reservation_id"
	blackoutIDContextKey    contextKey = "blackout_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}

// ContextWithUserID injects the user identifier resolved from the request path.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext extracts a user identifier previously associated with the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}

// ContextWithReservationID injects the reservation identifier resolved from the request path.
func ContextWithReservationID(ctx context.Context, reservationID string) context.Context {
	return context.WithValue(ctx, reservationIDContextKey, reservationID)
}

// ReservationIDFromContext extracts a reservation identifier previously associated with the context.
func ReservationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(reservationIDContextKey).(string)
	return id, ok
}

// ContextWithBlackoutID injects the blackout identifier resolved from the request path.
func ContextWithBlackoutID(ctx context.Context, blackoutID string) context.Context {
	return context.WithValue(ctx, blackoutIDContextKey, blackoutID)
}

// BlackoutIDFromContext extracts a blackout identifier previously associated with the context.
func BlackoutIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(blackoutIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts a request scoped logger from the context.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
