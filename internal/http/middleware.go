package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
)

// SessionValidator resolves a session token to its principal.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (application.Principal, error)
}

// RequireSession authenticates every request except the listed exempt paths.
func RequireSession(validator SessionValidator, logger *slog.Logger, exemptPaths ...string) func(http.Handler) http.Handler {
	responder := newResponder(logger)
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		exempt[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token := extractTokenFromRequest(r)
			if token == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
				return
			}

			principal, err := validator.ValidateSession(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, application.ErrSessionExpired):
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
						ErrorCode: "AUTH_SESSION_EXPIRED",
						Message:   "the session has expired, please log in again",
					})
				case errors.Is(err, application.ErrSessionRevoked), errors.Is(err, application.ErrUnauthorized):
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
						Message: "the session is not valid, please log in again",
					})
				default:
					responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{
						Message: "an error occurred while validating the session",
					})
				}
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a per-request logger to the context and records
// request start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

// RateLimit throttles requests per client IP using a token bucket. A zero or
// negative perMinute disables the limiter.
func RateLimit(perMinute int, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)
	limiters := &ipLimiters{
		perMinute: perMinute,
		entries:   make(map[string]*rate.Limiter),
	}

	return func(next http.Handler) http.Handler {
		if perMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiters.get(ip).Allow() {
				responder.writeJSON(r.Context(), w, http.StatusTooManyRequests, errorResponse{
					ErrorCode: "RATE_LIMITED",
					Message:   "too many requests, slow down",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type ipLimiters struct {
	mu        sync.Mutex
	perMinute int
	entries   map[string]*rate.Limiter
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.entries[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.perMinute)
		l.entries[ip] = limiter
	}
	return limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
