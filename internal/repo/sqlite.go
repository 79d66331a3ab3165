package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO), registers "sqlite"

	"github.com/pkordes/gas-calc/internal/domain"
)

// OpenSQLite opens (creating if needed) the SQLite database file at path.
// Parent directories are created. Schema migrations are not applied here;
// run migrations.Up with goose.DialectSQLite3 afterwards.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: create directory: %w", err)
	}

	// busy_timeout lets a pooled connection wait for the single writer
	// instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}
	return db, nil
}

// sqliteSnapshotRepo is the SQLite implementation of SnapshotRepo.
type sqliteSnapshotRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSnapshotRepo constructs a SnapshotRepo backed by a SQLite database
// that has the snapshots table migrated.
func NewSQLiteSnapshotRepo(db *sql.DB) SnapshotRepo {
	return &sqliteSnapshotRepo{db: db, now: time.Now}
}

// Load reads the snapshot body for key.
func (r *sqliteSnapshotRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE key = ?`, key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("repo.SQLiteSnapshotRepo.Load: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.SQLiteSnapshotRepo.Load: %w", err)
	}
	return []byte(body), nil
}

// Save upserts the snapshot body for key.
func (r *sqliteSnapshotRepo) Save(ctx context.Context, key string, blob []byte) error {
	const q = `
		INSERT INTO snapshots (key, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE
		SET body       = excluded.body,
		    updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, q, key, string(blob), r.now().Unix()); err != nil {
		return fmt.Errorf("repo.SQLiteSnapshotRepo.Save: %w", err)
	}
	return nil
}

// Delete removes the snapshot for key.
func (r *sqliteSnapshotRepo) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("repo.SQLiteSnapshotRepo.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repo.SQLiteSnapshotRepo.Delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repo.SQLiteSnapshotRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}
