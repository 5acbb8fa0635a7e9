package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/clock"
	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// CredentialStore exposes the user lookups required by the auth service.
type CredentialStore interface {
	GetUserByEmail(ctx context.Context, email string) (persistence.User, error)
	GetUser(ctx context.Context, id string) (persistence.User, error)
}

// SessionStore captures the persistence interactions for issued sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error)
	GetSession(ctx context.Context, token string) (persistence.Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService coordinates login, logout, and session validation.
type AuthService struct {
	credentials    CredentialStore
	sessions       SessionStore
	verifyPassword PasswordVerifier
	tokenGenerator func() string
	clock          clock.Clock
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(credentials CredentialStore, sessions SessionStore, verify PasswordVerifier, tokenGenerator func() string, clk clock.Clock, sessionTTL time.Duration) *AuthService {
	return NewAuthServiceWithLogger(credentials, sessions, verify, tokenGenerator, clk, sessionTTL, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(credentials CredentialStore, sessions SessionStore, verify PasswordVerifier, tokenGenerator func() string, clk clock.Clock, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyPassword
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		credentials:    credentials,
		sessions:       sessions,
		verifyPassword: verify,
		tokenGenerator: tokenGenerator,
		clock:          clk,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

func (s *AuthService) now() time.Time {
	if s.clock != nil {
		return s.clock.Now()
	}
	return time.Now()
}

// Authenticate validates credentials and issues a new session token.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential store not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	password := params.Password

	logger := s.loggerWith(ctx, "Authenticate",
		"email", email,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"user_id", result.User.ID,
			"session_id", result.Session.ID,
		).InfoContext(ctx, "authentication succeeded")
	}()

	if email == "" || password == "" {
		err = ErrInvalidCredentials
		return
	}

	var record persistence.User
	record, err = s.credentials.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
			return
		}
		err = mapRepoError(err)
		return
	}

	if err = s.verifyPassword(record.PasswordHash, password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	now := s.now()
	id := s.tokenGenerator()
	token := s.tokenGenerator()
	if token == "" {
		token = id
	}

	session := persistence.Session{
		ID:        id,
		UserID:    record.ID,
		Token:     token,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if s.sessions != nil {
		if err = s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
			err = mapRepoError(err)
			return
		}

		var persisted persistence.Session
		persisted, err = s.sessions.CreateSession(ctx, session)
		if err != nil {
			err = mapRepoError(err)
			return
		}
		session = persisted
	}

	result = AuthenticateResult{
		User:    fromPersistenceUser(record),
		Session: fromPersistenceSession(session),
	}
	return
}

// RevokeSession invalidates an existing session token.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ErrInvalidCredentials
	}

	logger := s.loggerWith(ctx, "RevokeSession", "token_provided", trimmed != "")

	if _, err := s.sessions.RevokeSession(ctx, trimmed, s.now()); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.ErrorContext(ctx, "failed to revoke session", "error", ErrInvalidCredentials, "error_kind", ErrorKind(ErrInvalidCredentials))
			return ErrInvalidCredentials
		}
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to revoke session", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "session revoked")
	return nil
}

// ValidateSession verifies that the provided token corresponds to an active session and returns its principal.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (principal Principal, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.sessions == nil {
		err = fmt.Errorf("session repository not configured")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential store not configured")
		return
	}

	trimmed := strings.TrimSpace(token)
	logger := s.loggerWith(ctx, "ValidateSession", "token_provided", trimmed != "")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "session validation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("principal_id", principal.UserID).InfoContext(ctx, "session validated")
	}()

	if trimmed == "" {
		err = ErrUnauthorized
		return
	}

	var session persistence.Session
	session, err = s.sessions.GetSession(ctx, trimmed)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrUnauthorized
			return
		}
		err = mapRepoError(err)
		return
	}

	now := s.now()
	if session.RevokedAt != nil && !session.RevokedAt.IsZero() {
		err = ErrSessionRevoked
		return
	}
	if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(now) {
		err = ErrSessionExpired
		return
	}

	var record persistence.User
	record, err = s.credentials.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrUnauthorized
			return
		}
		err = mapRepoError(err)
		return
	}

	principal = Principal{UserID: record.ID, IsAdmin: record.IsAdmin}
	return
}

// PurgeExpiredSessions removes expired and revoked sessions. Intended for a
// periodic maintenance job.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	logger := s.loggerWith(ctx, "PurgeExpiredSessions")
	if err := s.sessions.DeleteExpiredSessions(ctx, s.now()); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to purge expired sessions", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "expired sessions purged")
	return nil
}

func fromPersistenceSession(row persistence.Session) Session {
	return Session{
		ID:        row.ID,
		UserID:    row.UserID,
		Token:     row.Token,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		RevokedAt: row.RevokedAt,
	}
}
