package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if strings.TrimSpace(user.Email) == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, email, display_name, is_admin, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		user.ID,
		strings.ToLower(strings.TrimSpace(user.Email)),
		user.DisplayName,
		boolToInt(user.IsAdmin),
		user.PasswordHash,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)

	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateUser updates an existing user.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}

	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = ?, display_name = ?, is_admin = ?, password_hash = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		strings.ToLower(strings.TrimSpace(user.Email)),
		user.DisplayName,
		boolToInt(user.IsAdmin),
		user.PasswordHash,
		formatTime(user.UpdatedAt),
		user.ID,
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

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if strings.TrimSpace(id) == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, email, display_name, is_admin, password_hash, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	return r.getOne(ctx, query, id)
}

// GetUserByEmail retrieves a user by email address, case-insensitively.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	if strings.TrimSpace(email) == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, email, display_name, is_admin, password_hash, created_at, updated_at
		FROM users
		WHERE email = ? COLLATE NOCASE
	`

	return r.getOne(ctx, query, strings.TrimSpace(email))
}

// ListUsers returns all users ordered by creation time then ID.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	query := `
		SELECT id, email, display_name, is_admin, password_hash, created_at, updated_at
		FROM users
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return users, nil
}

// DeleteUser removes a user and its dependent records.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM reservations WHERE user_id = ?",
			"DELETE FROM sessions WHERE user_id = ?",
		} {
			if _, err := r.helper.ExecTx(tx, stmt, id); err != nil {
				return r.mapper.MapError(err)
			}
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM users WHERE id = ?", id)
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

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (persistence.User, error) {
	user, err := scanUser(r.helper.QueryRow(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, r.mapper.MapError(err)
	}
	return user, nil
}

func scanUser(row rowScanner) (persistence.User, error) {
	var user persistence.User
	var isAdmin int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&isAdmin,
		&user.PasswordHash,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.User{}, err
	}

	user.IsAdmin = isAdmin != 0

	if user.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return persistence.User{}, err
	}

	return user, nil
}
