package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateSession stores a new session token for a user.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.UserID == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}
	if strings.TrimSpace(session.Token) == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `
		INSERT INTO sessions (id, user_id, token, expires_at, revoked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var revokedAt sql.NullString
	if session.RevokedAt != nil {
		revokedAt.String = formatTime(*session.RevokedAt)
		revokedAt.Valid = true
	}

	_, err := r.helper.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		formatTime(session.ExpiresAt),
		revokedAt,
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
	)

	if err != nil {
		return persistence.Session{}, r.mapper.MapError(err)
	}

	return session, nil
}

// GetSession retrieves a session by its token value.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, user_id, token, expires_at, revoked_at, created_at, updated_at
		FROM sessions
		WHERE token = ?
	`

	session, err := scanSession(r.helper.QueryRow(ctx, query, token))
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Session{}, persistence.ErrNotFound
		}
		return persistence.Session{}, r.mapper.MapError(err)
	}

	return session, nil
}

// RevokeSession marks a session as revoked at the given time.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	query := `
		UPDATE sessions
		SET revoked_at = ?, updated_at = ?
		WHERE token = ? AND revoked_at IS NULL
	`

	result, err := r.helper.Exec(ctx, query, formatTime(revokedAt), formatTime(time.Now().UTC()), token)
	if err != nil {
		return persistence.Session{}, r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistence.Session{}, err
	}
	if rowsAffected == 0 {
		// Either unknown token or already revoked; return the current row
		// so the caller can distinguish.
		return r.GetSession(ctx, token)
	}

	return r.GetSession(ctx, token)
}

// DeleteExpiredSessions removes sessions whose expiry is at or before the
// reference time, and revoked sessions.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.helper.Exec(ctx,
		"DELETE FROM sessions WHERE expires_at <= ? OR revoked_at IS NOT NULL",
		formatTime(reference),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

func scanSession(row rowScanner) (persistence.Session, error) {
	var session persistence.Session
	var expiresAtStr, createdAtStr, updatedAtStr string
	var revokedAt sql.NullString

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&expiresAtStr,
		&revokedAt,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Session{}, err
	}

	if revokedAt.Valid {
		if session.RevokedAt, err = parseTimePtr(revokedAt.String); err != nil {
			return persistence.Session{}, err
		}
	}

	if session.ExpiresAt, err = parseTime(expiresAtStr); err != nil {
		return persistence.Session{}, err
	}
	if session.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Session{}, err
	}
	if session.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Session{}, err
	}

	return session, nil
}
