package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// OpeningHourRepository implements persistence.OpeningHourRepository using SQLite.
type OpeningHourRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewOpeningHourRepository creates a new SQLite opening hour repository.
func NewOpeningHourRepository(pool *ConnectionPool) *OpeningHourRepository {
	return &OpeningHourRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// UpsertOpeningHour inserts or replaces the opening window for (room, weekday).
func (r *OpeningHourRepository) UpsertOpeningHour(ctx context.Context, hour persistence.OpeningHour) error {
	if hour.ID == "" || hour.RoomID == "" {
		return persistence.ErrConstraintViolation
	}
	if strings.TrimSpace(hour.OpenTime) == "" || strings.TrimSpace(hour.CloseTime) == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	hour.CreatedAt = now
	hour.UpdatedAt = now

	query := `
		INSERT INTO opening_hours (id, room_id, weekday, open_time, close_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (room_id, weekday) DO UPDATE SET
			open_time = excluded.open_time,
			close_time = excluded.close_time,
			updated_at = excluded.updated_at
	`

	_, err := r.helper.Exec(ctx, query,
		hour.ID,
		hour.RoomID,
		int(hour.Weekday),
		hour.OpenTime,
		hour.CloseTime,
		formatTime(hour.CreatedAt),
		formatTime(hour.UpdatedAt),
	)

	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetForRoomWeekday retrieves the opening window for a room on one weekday.
func (r *OpeningHourRepository) GetForRoomWeekday(ctx context.Context, roomID string, weekday time.Weekday) (persistence.OpeningHour, error) {
	if strings.TrimSpace(roomID) == "" {
		return persistence.OpeningHour{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, room_id, weekday, open_time, close_time, created_at, updated_at
		FROM opening_hours
		WHERE room_id = ? AND weekday = ?
	`

	hour, err := scanOpeningHour(r.helper.QueryRow(ctx, query, roomID, int(weekday)))
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.OpeningHour{}, persistence.ErrNotFound
		}
		return persistence.OpeningHour{}, r.mapper.MapError(err)
	}

	return hour, nil
}

// ListForRoom returns all opening windows for a room ordered by weekday.
func (r *OpeningHourRepository) ListForRoom(ctx context.Context, roomID string) ([]persistence.OpeningHour, error) {
	query := `
		SELECT id, room_id, weekday, open_time, close_time, created_at, updated_at
		FROM opening_hours
		WHERE room_id = ?
		ORDER BY weekday ASC
	`

	rows, err := r.helper.Query(ctx, query, roomID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var hours []persistence.OpeningHour
	for rows.Next() {
		hour, err := scanOpeningHour(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		hours = append(hours, hour)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return hours, nil
}

// DeleteOpeningHour removes the opening window for (room, weekday).
func (r *OpeningHourRepository) DeleteOpeningHour(ctx context.Context, roomID string, weekday time.Weekday) error {
	result, err := r.helper.Exec(ctx, "DELETE FROM opening_hours WHERE room_id = ? AND weekday = ?", roomID, int(weekday))
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

func scanOpeningHour(row rowScanner) (persistence.OpeningHour, error) {
	var hour persistence.OpeningHour
	var weekday int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&hour.ID,
		&hour.RoomID,
		&weekday,
		&hour.OpenTime,
		&hour.CloseTime,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.OpeningHour{}, err
	}

	hour.Weekday = time.Weekday(weekday)

	if hour.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.OpeningHour{}, err
	}
	if hour.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.OpeningHour{}, err
	}

	return hour, nil
}
