package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/pkordes/gas-calc/internal/repo"
	"github.com/pkordes/gas-calc/migrations"
)

// NewSQLiteDB opens a SQLite database in a per-test temp directory and
// applies all SQLite migrations. The database is closed when the test ends
// and the file is removed with the temp directory.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := repo.OpenSQLite(ctx, filepath.Join(t.TempDir(), "gas-calc.db"))
	if err != nil {
		t.Fatalf("testutil.NewSQLiteDB: open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := migrations.Up(ctx, db, goose.DialectSQLite3); err != nil {
		t.Fatalf("testutil.NewSQLiteDB: migrate: %v", err)
	}
	return db
}
