package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
)

type authServiceStub struct {
	authenticateFn func(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error)
	revokeFn       func(ctx context.Context, token string) error
	revokedToken   string
}

func (s *authServiceStub) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	if s.authenticateFn != nil {
		return s.authenticateFn(ctx, params)
	}
	return application.AuthenticateResult{}, application.ErrInvalidCredentials
}

func (s *authServiceStub) RevokeSession(ctx context.Context, token string) error {
	s.revokedToken = token
	if s.revokeFn != nil {
		return s.revokeFn(ctx, token)
	}
	return nil
}

func TestAuthHandler_CreateSession(t *testing.T) {
	expires := time.Date(2025, time.January, 6, 16, 0, 0, 0, time.UTC)

	t.Run("issues session", func(t *testing.T) {
		var gotParams application.AuthenticateParams
		stub := &authServiceStub{
			authenticateFn: func(_ context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
				gotParams = params
				return application.AuthenticateResult{
					User:    application.User{ID: "user-1", Email: params.Email, IsAdmin: true},
					Session: application.Session{ID: "sess-1", UserID: "user-1", Token: "token-1", ExpiresAt: expires},
				}, nil
			},
		}
		handler := NewAuthHandler(stub, quietLogger())

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"  Ana@Example.com ","password":"hunter2hunter2"}`))
		rec := httptest.NewRecorder()
		handler.CreateSession(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("unexpected status %d", rec.Code)
		}
		if gotParams.Email != "ana@example.com" {
			t.Fatalf("email must be normalized, got %q", gotParams.Email)
		}
		if got := rec.Header().Get("X-Session-Token"); got != "token-1" {
			t.Fatalf("unexpected session header %q", got)
		}

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == "session_token" {
				cookie = c
			}
		}
		if cookie == nil || cookie.Value != "token-1" {
			t.Fatalf("expected session_token cookie, got %+v", cookie)
		}
		if !cookie.HttpOnly {
			t.Fatal("session cookie must be http-only")
		}

		var resp loginResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Token != "token-1" || resp.Principal.UserID != "user-1" || !resp.Principal.IsAdmin {
			t.Fatalf("unexpected response %+v", resp)
		}
		if resp.ExpiresAt != expires.Format(time.RFC3339Nano) {
			t.Fatalf("unexpected expiry %q", resp.ExpiresAt)
		}
	})

	t.Run("invalid credentials", func(t *testing.T) {
		handler := NewAuthHandler(&authServiceStub{}, quietLogger())

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`))
		rec := httptest.NewRecorder()
		handler.CreateSession(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status %d", rec.Code)
		}
		if resp := decodeErrorResponse(t, rec); resp.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
			t.Fatalf("unexpected error code %q", resp.ErrorCode)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := NewAuthHandler(&authServiceStub{}, quietLogger())

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		handler.CreateSession(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("unexpected status %d", rec.Code)
		}
	})
}

func TestAuthHandler_DeleteCurrentSession(t *testing.T) {
	t.Run("revokes bearer token", func(t *testing.T) {
		stub := &authServiceStub{}
		handler := NewAuthHandler(stub, quietLogger())

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set("Authorization", "Bearer token-1")
		rec := httptest.NewRecorder()
		handler.DeleteCurrentSession(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("unexpected status %d", rec.Code)
		}
		if stub.revokedToken != "token-1" {
			t.Fatalf("unexpected revoked token %q", stub.revokedToken)
		}

		var cleared *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == "session_token" {
				cleared = c
			}
		}
		if cleared == nil || cleared.Value != "" || cleared.MaxAge != -1 {
			t.Fatalf("session cookie must be cleared, got %+v", cleared)
		}
	})

	t.Run("accepts cookie token", func(t *testing.T) {
		stub := &authServiceStub{}
		handler := NewAuthHandler(stub, quietLogger())

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "token-2"})
		rec := httptest.NewRecorder()
		handler.DeleteCurrentSession(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("unexpected status %d", rec.Code)
		}
		if stub.revokedToken != "token-2" {
			t.Fatalf("unexpected revoked token %q", stub.revokedToken)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		handler := NewAuthHandler(&authServiceStub{}, quietLogger())

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		rec := httptest.NewRecorder()
		handler.DeleteCurrentSession(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status %d", rec.Code)
		}
	})
}
