package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/riteshkumar/clientes-api/internal/config"
)

//go:embed schema.sql
var schema string

// Open establishes the Postgres pool and waits until the store answers a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Confirm connection pool
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := waitForPing(ctx, db, cfg.ConnectRetries, cfg.ConnectRetryInterval, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// waitForPing pings db up to attempts times, sleeping interval between tries.
func waitForPing(ctx context.Context, db *sql.DB, attempts int, interval time.Duration, logger *slog.Logger) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if i == attempts {
			break
		}

		logger.Warn("database not ready, retrying",
			"attempt", i,
			"max_attempts", attempts,
			"retry_in", interval.String(),
			"error", err.Error(),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping database: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
