package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type sessionValidatorStub struct {
	principal application.Principal
	err       error
	lastToken string
}

func (s *sessionValidatorStub) ValidateSession(_ context.Context, token string) (application.Principal, error) {
	s.lastToken = token
	if s.err != nil {
		return application.Principal{}, s.err
	}
	return s.principal, nil
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestRequireSession(t *testing.T) {
	newProtected := func(validator *sessionValidatorStub) (http.Handler, *application.Principal) {
		var seen application.Principal
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if principal, ok := PrincipalFromContext(r.Context()); ok {
				seen = principal
			}
			w.WriteHeader(http.StatusOK)
		})
		return RequireSession(validator, quietLogger(), "/login")(inner), &seen
	}

	t.Run("exempt path skips validation", func(t *testing.T) {
		validator := &sessionValidatorStub{}
		handler, _ := newProtected(validator)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if validator.lastToken != "" {
			t.Fatal("validator must not run for exempt paths")
		}
	})

	t.Run("missing token", func(t *testing.T) {
		handler, _ := newProtected(&sessionValidatorStub{})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("expired session", func(t *testing.T) {
		handler, _ := newProtected(&sessionValidatorStub{err: application.ErrSessionExpired})

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if resp := decodeErrorResponse(t, rec); resp.ErrorCode != "AUTH_SESSION_EXPIRED" {
			t.Fatalf("unexpected error code %q", resp.ErrorCode)
		}
	})

	t.Run("revoked session", func(t *testing.T) {
		handler, _ := newProtected(&sessionValidatorStub{err: application.ErrSessionRevoked})

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		req.Header.Set("Authorization", "Bearer revoked-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("bearer token yields principal", func(t *testing.T) {
		validator := &sessionValidatorStub{principal: application.Principal{UserID: "user-1", IsAdmin: true}}
		handler, seen := newProtected(validator)

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if validator.lastToken != "good-token" {
			t.Fatalf("unexpected token %q", validator.lastToken)
		}
		if seen.UserID != "user-1" || !seen.IsAdmin {
			t.Fatalf("principal must reach the handler, got %+v", *seen)
		}
	})

	t.Run("cookie token accepted", func(t *testing.T) {
		validator := &sessionValidatorStub{principal: application.Principal{UserID: "user-1"}}
		handler, _ := newProtected(validator)

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-token"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if validator.lastToken != "cookie-token" {
			t.Fatalf("unexpected token %q", validator.lastToken)
		}
	})
}

func TestRateLimit(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("throttles after burst", func(t *testing.T) {
		handler := RateLimit(2, quietLogger())(inner)

		statuses := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			statuses = append(statuses, rec.Code)
		}

		if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
			t.Fatalf("burst requests must pass, got %v", statuses)
		}
		if statuses[2] != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after the burst, got %v", statuses)
		}
	})

	t.Run("limits are per client", func(t *testing.T) {
		handler := RateLimit(1, quietLogger())(inner)

		first := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		first.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, first)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		other := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		other.RemoteAddr = "10.0.0.2:1234"
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, other)
		if rec.Code != http.StatusOK {
			t.Fatalf("a different client must not be throttled, got %d", rec.Code)
		}
	})

	t.Run("disabled when zero", func(t *testing.T) {
		handler := RateLimit(0, quietLogger())(inner)

		for i := 0; i < 10; i++ {
			req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("limiter must be disabled, got %d", rec.Code)
			}
		}
	})
}
