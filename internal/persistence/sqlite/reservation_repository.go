package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository using SQLite.
type ReservationRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewReservationRepository creates a new SQLite reservation repository.
func NewReservationRepository(pool *ConnectionPool) *ReservationRepository {
	return &ReservationRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

// CreateReservation inserts a new reservation. The write runs inside a
// transaction and is retried on transient lock contention; a failed insert
// leaves no partial row.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" || reservation.RoomID == "" || reservation.UserID == "" {
		return persistence.ErrConstraintViolation
	}
	if !reservation.Start.Before(reservation.End) {
		return persistence.ErrConstraintViolation
	}
	if reservation.Status == "" {
		reservation.Status = persistence.ReservationStatusConfirmed
	}

	now := time.Now().UTC()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	return r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			query := `
				INSERT INTO reservations (id, room_id, user_id, start_at, end_at, status, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`

			_, err := r.helper.ExecTx(tx, query,
				reservation.ID,
				reservation.RoomID,
				reservation.UserID,
				formatTime(reservation.Start),
				formatTime(reservation.End),
				string(reservation.Status),
				formatTime(reservation.CreatedAt),
				formatTime(reservation.UpdatedAt),
			)
			if err != nil {
				return r.mapper.MapError(err)
			}

			return nil
		})
	})
}

// GetReservation retrieves a reservation by ID.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	if strings.TrimSpace(id) == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, room_id, user_id, start_at, end_at, status, created_at, updated_at
		FROM reservations
		WHERE id = ?
	`

	reservation, err := scanReservation(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Reservation{}, persistence.ErrNotFound
		}
		return persistence.Reservation{}, r.mapper.MapError(err)
	}

	return reservation, nil
}

// UpdateReservationStatus transitions a reservation to the given status.
func (r *ReservationRepository) UpdateReservationStatus(ctx context.Context, id string, status persistence.ReservationStatus, updatedAt time.Time) error {
	query := `
		UPDATE reservations
		SET status = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query, string(status), formatTime(updatedAt), id)
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

// ListOverlapping returns reservations with the given status that share any
// instant with [from, to) on the room. The comparison is strict, so
// back-to-back reservations are not reported as overlapping.
func (r *ReservationRepository) ListOverlapping(ctx context.Context, roomID string, from, to time.Time, status persistence.ReservationStatus) ([]persistence.Reservation, error) {
	query := `
		SELECT id, room_id, user_id, start_at, end_at, status, created_at, updated_at
		FROM reservations
		WHERE room_id = ? AND status = ? AND end_at > ? AND start_at < ?
		ORDER BY start_at ASC
	`

	return r.queryReservations(ctx, query, roomID, string(status), formatTime(from), formatTime(to))
}

// ListForUserEndingAfter returns the user's reservations whose end instant
// is strictly after the reference time.
func (r *ReservationRepository) ListForUserEndingAfter(ctx context.Context, userID string, reference time.Time) ([]persistence.Reservation, error) {
	query := `
		SELECT id, room_id, user_id, start_at, end_at, status, created_at, updated_at
		FROM reservations
		WHERE user_id = ? AND end_at > ?
		ORDER BY start_at ASC
	`

	return r.queryReservations(ctx, query, userID, formatTime(reference))
}

// ListForUser returns all reservations held by a user ordered by start time.
func (r *ReservationRepository) ListForUser(ctx context.Context, userID string) ([]persistence.Reservation, error) {
	query := `
		SELECT id, room_id, user_id, start_at, end_at, status, created_at, updated_at
		FROM reservations
		WHERE user_id = ?
		ORDER BY start_at ASC
	`

	return r.queryReservations(ctx, query, userID)
}

func (r *ReservationRepository) queryReservations(ctx context.Context, query string, args ...any) ([]persistence.Reservation, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return reservations, nil
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	var status string
	var startStr, endStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&reservation.ID,
		&reservation.RoomID,
		&reservation.UserID,
		&startStr,
		&endStr,
		&status,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Reservation{}, err
	}

	reservation.Status = persistence.ReservationStatus(status)

	if reservation.Start, err = parseTime(startStr); err != nil {
		return persistence.Reservation{}, err
	}
	if reservation.End, err = parseTime(endStr); err != nil {
		return persistence.Reservation{}, err
	}
	if reservation.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.Reservation{}, err
	}
	if reservation.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.Reservation{}, err
	}

	return reservation, nil
}
