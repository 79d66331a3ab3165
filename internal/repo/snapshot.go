// Package repo contains all database access logic for the gas calculator.
// The only persisted resource is the trip snapshot: one opaque JSON blob per
// key. No business logic lives here; only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/gas-calc/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SnapshotRepo defines the persistence operations for trip snapshots.
// The service layer depends on this interface, not on a concrete store,
// which allows the service to be unit-tested with a mock.
type SnapshotRepo interface {
	// Load returns the blob stored under key.
	// Returns domain.ErrNotFound if nothing has been saved under that key.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores blob under key, replacing any previous snapshot.
	Save(ctx context.Context, key string, blob []byte) error

	// Delete removes the snapshot stored under key.
	// Returns domain.ErrNotFound if nothing was stored.
	Delete(ctx context.Context, key string) error
}

// pgSnapshotRepo is the Postgres implementation of SnapshotRepo.
type pgSnapshotRepo struct {
	db db
}

// NewSnapshotRepo constructs a SnapshotRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewSnapshotRepo(db db) SnapshotRepo {
	return &pgSnapshotRepo{db: db}
}

// Load reads the snapshot body for key.
func (r *pgSnapshotRepo) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT body FROM snapshots WHERE key = @key`

	var body []byte
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.SnapshotRepo.Load: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.SnapshotRepo.Load: %w", err)
	}
	return body, nil
}

// Save upserts the snapshot body for key.
func (r *pgSnapshotRepo) Save(ctx context.Context, key string, blob []byte) error {
	const q = `
		INSERT INTO snapshots (key, body)
		VALUES (@key, @body)
		ON CONFLICT (key) DO UPDATE
		SET body       = EXCLUDED.body,
		    updated_at = now()`

	args := pgx.NamedArgs{
		"key":  key,
		"body": blob, // raw JSON; pgx passes []byte to jsonb unchanged
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.SnapshotRepo.Save: %w", err)
	}
	return nil
}

// Delete removes the snapshot for key.
func (r *pgSnapshotRepo) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM snapshots WHERE key = @key`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key})
	if err != nil {
		return fmt.Errorf("repo.SnapshotRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SnapshotRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}
