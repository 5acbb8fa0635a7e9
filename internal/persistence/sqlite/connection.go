package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// Config holds SQLite-specific connection settings.
type Config struct {
	// DSN is the database file path or connection string.
	DSN string

	// BusyTimeout sets how long to wait for database locks.
	BusyTimeout time.Duration

	// MaxOpenConns caps the pool size. SQLite allows one writer at a time,
	// so a small pool is enough.
	MaxOpenConns int

	// MaxIdleConns sets the number of idle connections kept around.
	MaxIdleConns int
}

// DefaultConfig returns connection settings suitable for a single service
// process fronting one database file.
func DefaultConfig(dsn string) Config {
	return Config{
		DSN:          dsn,
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	}
}

// ConnectionPool manages SQLite database connections with transaction support.
type ConnectionPool struct {
	db     *sql.DB
	config Config
}

// NewConnectionPool opens the database and applies connection pragmas.
func NewConnectionPool(config Config) (*ConnectionPool, error) {
	if strings.TrimSpace(config.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	if config.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA busy_timeout = %d", config.BusyTimeout.Milliseconds()))
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return &ConnectionPool{db: db, config: config}, nil
}

// DB returns the underlying database connection.
func (cp *ConnectionPool) DB() *sql.DB {
	return cp.db
}

// Close closes the connection pool.
func (cp *ConnectionPool) Close() error {
	if cp.db != nil {
		return cp.db.Close()
	}
	return nil
}

// Ping tests the database connection.
func (cp *ConnectionPool) Ping(ctx context.Context) error {
	return cp.db.PingContext(ctx)
}

// TransactionFunc represents a function that executes within a transaction.
type TransactionFunc func(tx *sql.Tx) error

// WithTransaction executes a function within a database transaction.
// If the function returns an error, the transaction is rolled back;
// otherwise it is committed.
func (cp *ConnectionPool) WithTransaction(ctx context.Context, fn TransactionFunc) error {
	tx, err := cp.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithReadOnlyTransaction executes a function within a read-only transaction.
func (cp *ConnectionPool) WithReadOnlyTransaction(ctx context.Context, fn TransactionFunc) error {
	tx, err := cp.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("failed to begin read-only transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("read-only transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit read-only transaction: %w", err)
	}

	return nil
}

// QueryHelper provides helper methods for common query patterns.
type QueryHelper struct {
	pool *ConnectionPool
}

// NewQueryHelper creates a new query helper.
func NewQueryHelper(pool *ConnectionPool) *QueryHelper {
	return &QueryHelper{pool: pool}
}

// QueryRow executes a query that returns a single row.
func (qh *QueryHelper) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return qh.pool.db.QueryRowContext(ctx, query, args...)
}

// Query executes a query that returns multiple rows.
func (qh *QueryHelper) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return qh.pool.db.QueryContext(ctx, query, args...)
}

// Exec executes a query that doesn't return rows.
func (qh *QueryHelper) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return qh.pool.db.ExecContext(ctx, query, args...)
}

// QueryRowTx executes a query that returns a single row within a transaction.
func (qh *QueryHelper) QueryRowTx(tx *sql.Tx, query string, args ...any) *sql.Row {
	return tx.QueryRow(query, args...)
}

// QueryTx executes a query that returns multiple rows within a transaction.
func (qh *QueryHelper) QueryTx(tx *sql.Tx, query string, args ...any) (*sql.Rows, error) {
	return tx.Query(query, args...)
}

// ExecTx executes a query that doesn't return rows within a transaction.
func (qh *QueryHelper) ExecTx(tx *sql.Tx, query string, args ...any) (sql.Result, error) {
	return tx.Exec(query, args...)
}

// ErrorMapper maps SQLite errors to persistence layer errors.
type ErrorMapper struct{}

// NewErrorMapper creates a new error mapper.
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps SQLite-specific errors to persistence layer errors.
func (em *ErrorMapper) MapError(err error) error {
	if err == nil {
		return nil
	}

	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}

	errStr := err.Error()

	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return persistence.ErrDuplicate
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") || strings.Contains(errStr, "foreign key constraint") {
		return persistence.ErrForeignKeyViolation
	}
	if strings.Contains(errStr, "CHECK constraint failed") || strings.Contains(errStr, "constraint failed") {
		return persistence.ErrConstraintViolation
	}

	return err
}

// RetryConfig configures retry behavior for database operations.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns a retry configuration with sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryHelper provides retry functionality for operations that hit
// transient "database is locked" conditions.
type RetryHelper struct {
	config RetryConfig
	mapper *ErrorMapper
}

// NewRetryHelper creates a new retry helper.
func NewRetryHelper(config RetryConfig) *RetryHelper {
	return &RetryHelper{
		config: config,
		mapper: NewErrorMapper(),
	}
}

// RetryableFunc represents a function that can be retried.
type RetryableFunc func() error

// WithRetry executes a function with bounded exponential backoff for
// transient errors. Business-rule and constraint errors are never retried.
func (rh *RetryHelper) WithRetry(ctx context.Context, fn RetryableFunc) error {
	var lastErr error
	delay := rh.config.InitialDelay

	for attempt := 0; attempt <= rh.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * rh.config.BackoffFactor)
				if delay > rh.config.MaxDelay {
					delay = rh.config.MaxDelay
				}
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = rh.mapper.MapError(err)
		if !isRetryableError(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", rh.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should be retried.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "database is locked") || strings.Contains(errStr, "database is busy") || strings.Contains(errStr, "SQLITE_BUSY") {
		return true
	}

	return false
}
