package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateRoom inserts a new room into the database.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now

	query := `
		INSERT INTO rooms (id, name, capacity, equipment, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		room.ID,
		room.Name,
		room.Capacity,
		encodeEquipment(room.Equipment),
		boolToInt(room.Active),
		formatTime(room.CreatedAt),
		formatTime(room.UpdatedAt),
	)

	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateRoom updates an existing room in the database.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}

	room.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE rooms
		SET name = ?, capacity = ?, equipment = ?, active = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		room.Name,
		room.Capacity,
		encodeEquipment(room.Equipment),
		boolToInt(room.Active),
		formatTime(room.UpdatedAt),
		room.ID,
	)

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

// GetRoom retrieves a room by ID from the database.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if strings.TrimSpace(id) == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, name, capacity, equipment, active, created_at, updated_at
		FROM rooms
		WHERE id = ?
	`

	room, err := scanRoom(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, r.mapper.MapError(err)
	}

	return room, nil
}

// ListRooms returns all rooms ordered by name then ID.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	query := `
		SELECT id, name, capacity, equipment, active, created_at, updated_at
		FROM rooms
		ORDER BY name ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return rooms, nil
}

// DeleteRoom removes a room and its dependent records. The cascade is an
// explicit sequence of deletes so the retention behavior is visible here
// rather than hidden in schema constraints.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM reservations WHERE room_id = ?",
			"DELETE FROM blackouts WHERE room_id = ?",
			"DELETE FROM opening_hours WHERE room_id = ?",
		} {
			if _, err := r.helper.ExecTx(tx, stmt, id); err != nil {
				return r.mapper.MapError(err)
			}
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM rooms WHERE id = ?", id)
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
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var equipment string
	var active int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&room.ID,
		&room.Name,
		&room.Capacity,
		&equipment,
		&active,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Room{}, err
	}

	room.Equipment = decodeEquipment(equipment)
	room.Active = active != 0

	if room.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Room{}, err
	}
	if room.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Room{}, err
	}

	return room, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
