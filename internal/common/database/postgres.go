package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kisan-sathi/internal/common/config"

	_ "github.com/lib/pq"
)

// Schema is applied by Migrate. Every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS market_prices (
		position  INTEGER PRIMARY KEY,
		crop      TEXT NOT NULL,
		market    TEXT NOT NULL,
		location  TEXT NOT NULL,
		price     NUMERIC(12,2) NOT NULL CHECK (price > 0),
		unit      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		feedback_id UUID PRIMARY KEY,
		user_name   TEXT NOT NULL,
		feature     TEXT NOT NULL,
		helpful     BOOLEAN NOT NULL,
		comment     TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS farmers (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		phone    TEXT NOT NULL DEFAULT '',
		email    TEXT NOT NULL DEFAULT '',
		village  TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT 'English'
	)`,
}

type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// NewPostgresFromDB wraps an existing handle (sqlmock in tests).
func NewPostgresFromDB(db *sql.DB) *PostgresClient {
	return &PostgresClient{DB: db}
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Migrate creates the tables used by the workers.
func (c *PostgresClient) Migrate(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// WithTx runs fn in a transaction, rolling back when fn fails.
func (c *PostgresClient) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
