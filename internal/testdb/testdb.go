package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-dev/shelf-api/internal/platform/logger"
	"github.com/kestrel-dev/shelf-api/internal/platform/postgres"
	"github.com/kestrel-dev/shelf-api/internal/redact"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// Environment variables holding the test database URL, in lookup order.
const (
	EnvTestDatabaseURL = "SHELF_TEST_DATABASE_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

// DatabaseURL returns the first non-empty test database URL from the
// environment, or "" when none is set.
func DatabaseURL() string {
	for _, key := range []string{EnvTestDatabaseURL, EnvDatabaseURL} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkip reports whether database tests must be skipped.
func ShouldSkip() bool {
	return DatabaseURL() == ""
}

// Open connects to the test database and applies all migrations. The test
// is skipped when no database URL is configured. The connection is closed
// when the test finishes.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()
	if ShouldSkip() {
		t.Skipf("%s not set; skipping database test", EnvTestDatabaseURL)
	}

	db, err := sqlx.Open("pgx", DatabaseURL())
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %s", redact.Error(err))
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to ping test database")

	log, _ := logger.NewTestLogger(t)
	require.NoError(t, postgres.Migrate(context.Background(), db.DB, "up", log), "failed to run migrations")
	return db
}

// WithTx executes fn within a transaction that is rolled back afterwards,
// so tests can share one database without seeing each other's rows.
func WithTx(t *testing.T, db *sqlx.DB, fn func(t *testing.T, tx *sqlx.Tx)) {
	t.Helper()

	tx, err := db.Beginx()
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		// sql.ErrTxDone is expected if fn already ended the transaction
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
