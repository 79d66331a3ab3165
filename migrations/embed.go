// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API at server start-up and in tests.
// Each supported store has its own directory because the column types differ.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Postgres returns the migrations for the Postgres snapshot store.
func Postgres() fs.FS {
	return sub("postgres")
}

// SQLite returns the migrations for the SQLite snapshot store.
func SQLite() fs.FS {
	return sub("sqlite")
}

// Up applies every pending migration for the given dialect.
// Only goose.DialectPostgres and goose.DialectSQLite3 are supported.
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect) ([]*goose.MigrationResult, error) {
	var fsys fs.FS
	switch dialect {
	case goose.DialectPostgres:
		fsys = Postgres()
	case goose.DialectSQLite3:
		fsys = SQLite()
	default:
		return nil, fmt.Errorf("migrations.Up: unsupported dialect %q", dialect)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("migrations.Up: create provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrations.Up: %w", err)
	}
	return results, nil
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(FS, dir)
	if err != nil {
		// The directory is embedded at compile time; failure means a build bug.
		panic("migrations: " + err.Error())
	}
	return f
}
