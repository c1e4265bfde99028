// Package postgres provides Postgres-backed persistence implementations.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/outflo/outreach-service/internal/config"
)

// Pool is the subset of pgxpool.Pool the stores rely on. pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Connect builds a pgx pool from config and verifies the connection.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	profile_url TEXT PRIMARY KEY,
	full_name   TEXT NOT NULL,
	job_title   TEXT NOT NULL DEFAULT '',
	company     TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	scraped_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_profiles_scraped_at ON profiles (scraped_at DESC);

CREATE TABLE IF NOT EXISTS campaigns (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'ACTIVE',
	leads       TEXT[] NOT NULL DEFAULT '{}',
	account_ids TEXT[] NOT NULL DEFAULT '{}',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_campaigns_status ON campaigns (status);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
