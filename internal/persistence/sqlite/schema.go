package sqlite

import (
	"context"
	"fmt"
)

// schemaStatements holds the DDL applied by Migrate. Statements are
// idempotent so startup can run them unconditionally.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL COLLATE NOCASE UNIQUE,
		display_name TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		equipment TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS opening_hours (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
		open_time TEXT NOT NULL,
		close_time TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (room_id, weekday)
	)`,
	`CREATE TABLE IF NOT EXISTS blackouts (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		reason TEXT NOT NULL,
		created_at TEXT NOT NULL,
		CHECK (start_at < end_at)
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('CONFIRMED', 'CANCELLED')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK (start_at < end_at)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_room_status ON reservations (room_id, status, start_at)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_user_end ON reservations (user_id, end_at)`,
	`CREATE INDEX IF NOT EXISTS idx_blackouts_room ON blackouts (room_id, start_at)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		revoked_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions (expires_at)`,
}

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
