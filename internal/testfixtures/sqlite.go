package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Nakotex7906/BookFronteraBack/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool         *sqlite.ConnectionPool
	Users        *sqlite.UserRepository
	Rooms        *sqlite.RoomRepository
	OpeningHours *sqlite.OpeningHourRepository
	Blackouts    *sqlite.BlackoutRepository
	Reservations *sqlite.ReservationRepository
	Sessions     *sqlite.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness backed by a temporary database
// file that is migrated automatically. Callers may optionally invoke Close,
// but the helper also registers a cleanup callback with the provided
// testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "bookfrontera.db")

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(path))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := sqlite.Migrate(context.Background(), pool); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:         pool,
		Users:        sqlite.NewUserRepository(pool),
		Rooms:        sqlite.NewRoomRepository(pool),
		OpeningHours: sqlite.NewOpeningHourRepository(pool),
		Blackouts:    sqlite.NewBlackoutRepository(pool),
		Reservations: sqlite.NewReservationRepository(pool),
		Sessions:     sqlite.NewSessionRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
