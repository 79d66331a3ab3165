// Package testutil provides shared helpers for store tests.
// Postgres helpers skip when TEST_DATABASE_URL is not set, so the suite runs
// without a database server. SQLite helpers always run against a temp file.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/gas-calc/migrations"
)

// migrateOnce applies the Postgres schema once per test binary.
var (
	migrateOnce sync.Once
	migrateErr  error
)

// NewPool returns a pool on TEST_DATABASE_URL with the snapshot schema in
// place. The pool is closed when the test and its subtests finish.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, postgresDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	migrateOnce.Do(func() {
		db := stdlib.OpenDBFromPool(pool)
		defer db.Close()
		_, migrateErr = migrations.Up(ctx, db, goose.DialectPostgres)
	})
	if migrateErr != nil {
		t.Fatalf("testutil.NewPool: migrate: %v", migrateErr)
	}
	return pool
}

// NewSQLDB opens a database/sql handle on TEST_DATABASE_URL through the pgx
// driver, with no migrations applied. goose works on this handle.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", postgresDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}
	return db
}

func postgresDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres test")
	}
	return dsn
}
