package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/gas-calc/internal/config"
	"github.com/pkordes/gas-calc/internal/repo"
	"github.com/pkordes/gas-calc/migrations"
)

// openStore connects to the configured snapshot store, applies pending
// migrations and returns the repo plus a func that releases the connection.
func openStore(ctx context.Context, cfg config.Config) (repo.SnapshotRepo, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, dsn string) (repo.SnapshotRepo, func(), error) {
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}
	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}

	// goose needs database/sql; borrow a *sql.DB view of the same pool.
	sqlDB := stdlib.OpenDBFromPool(pool)
	results, err := migrations.Up(ctx, sqlDB, goose.DialectPostgres)
	sqlDB.Close()
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	logMigrations(results)

	return repo.NewSnapshotRepo(pool), pool.Close, nil
}

func openSQLite(ctx context.Context, path string) (repo.SnapshotRepo, func(), error) {
	db, err := repo.OpenSQLite(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	results, err := migrations.Up(ctx, db, goose.DialectSQLite3)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	logMigrations(results)

	return repo.NewSQLiteSnapshotRepo(db), func() { db.Close() }, nil
}

func logMigrations(results []*goose.MigrationResult) {
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
}
