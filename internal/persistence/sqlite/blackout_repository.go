package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// BlackoutRepository implements persistence.BlackoutRepository using SQLite.
type BlackoutRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewBlackoutRepository creates a new SQLite blackout repository.
func NewBlackoutRepository(pool *ConnectionPool) *BlackoutRepository {
	return &BlackoutRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateBlackout inserts a new blackout interval.
func (r *BlackoutRepository) CreateBlackout(ctx context.Context, blackout persistence.Blackout) error {
	if blackout.ID == "" || blackout.RoomID == "" {
		return persistence.ErrConstraintViolation
	}
	if !blackout.Start.Before(blackout.End) {
		return persistence.ErrConstraintViolation
	}
	if strings.TrimSpace(blackout.Reason) == "" {
		return persistence.ErrConstraintViolation
	}

	blackout.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO blackouts (id, room_id, start_at, end_at, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		blackout.ID,
		blackout.RoomID,
		formatTime(blackout.Start),
		formatTime(blackout.End),
		blackout.Reason,
		formatTime(blackout.CreatedAt),
	)

	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetBlackout retrieves a blackout by ID.
func (r *BlackoutRepository) GetBlackout(ctx context.Context, id string) (persistence.Blackout, error) {
	if strings.TrimSpace(id) == "" {
		return persistence.Blackout{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, room_id, start_at, end_at, reason, created_at
		FROM blackouts
		WHERE id = ?
	`

	blackout, err := scanBlackout(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Blackout{}, persistence.ErrNotFound
		}
		return persistence.Blackout{}, r.mapper.MapError(err)
	}

	return blackout, nil
}

// ListOverlapping returns blackouts sharing any instant with [from, to) on
// the room. Adjacency is not overlap: rows ending exactly at `from` or
// starting exactly at `to` are excluded.
func (r *BlackoutRepository) ListOverlapping(ctx context.Context, roomID string, from, to time.Time) ([]persistence.Blackout, error) {
	query := `
		SELECT id, room_id, start_at, end_at, reason, created_at
		FROM blackouts
		WHERE room_id = ? AND end_at > ? AND start_at < ?
		ORDER BY start_at ASC
	`

	return r.queryBlackouts(ctx, query, roomID, formatTime(from), formatTime(to))
}

// ListForRoom returns all blackouts for a room ordered by start time.
func (r *BlackoutRepository) ListForRoom(ctx context.Context, roomID string) ([]persistence.Blackout, error) {
	query := `
		SELECT id, room_id, start_at, end_at, reason, created_at
		FROM blackouts
		WHERE room_id = ?
		ORDER BY start_at ASC
	`

	return r.queryBlackouts(ctx, query, roomID)
}

// DeleteBlackout removes a blackout by ID.
func (r *BlackoutRepository) DeleteBlackout(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, "DELETE FROM blackouts WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

func (r *BlackoutRepository) queryBlackouts(ctx context.Context, query string, args ...any) ([]persistence.Blackout, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var blackouts []persistence.Blackout
	for rows.Next() {
		blackout, err := scanBlackout(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		blackouts = append(blackouts, blackout)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return blackouts, nil
}

func scanBlackout(row rowScanner) (persistence.Blackout, error) {
	var blackout persistence.Blackout
	var startStr, endStr, createdAtStr string

	err := row.Scan(
		&blackout.ID,
		&blackout.RoomID,
		&startStr,
		&endStr,
		&blackout.Reason,
		&createdAtStr,
	)
	if err != nil {
		return persistence.Blackout{}, err
	}

	if blackout.Start, err = parseTime(startStr); err != nil {
		return persistence.Blackout{}, err
	}
	if blackout.End, err = parseTime(endStr); err != nil {
		return persistence.Blackout{}, err
	}
	if blackout.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Blackout{}, err
	}

	return blackout, nil
}
