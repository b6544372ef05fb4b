package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a pgx connection pool from the provided DSN and returns it.
// The pool is configured with sane defaults for this application.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// EnsureSchema creates the tables this service needs if they do not exist.
// Real deployments run migrations out of band; this keeps local and test
// environments self-contained.
func EnsureSchema(ctx context.Context, pool PgxPool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			filename TEXT NOT NULL,
			mime TEXT NOT NULL,
			size BIGINT NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS extraction_jobs (
			id UUID PRIMARY KEY,
			resume_id UUID NOT NULL REFERENCES resumes(id),
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			idempotency_key TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS extraction_jobs_idem_key
			ON extraction_jobs (idempotency_key) WHERE idempotency_key IS NOT NULL`,
		`CREATE TABLE IF NOT EXISTS candidate_profiles (
			resume_id UUID PRIMARY KEY REFERENCES resumes(id),
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			skills TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			experience_years TEXT NOT NULL DEFAULT '',
			current_ctc TEXT NOT NULL DEFAULT '',
			expected_ctc TEXT NOT NULL DEFAULT '',
			extracted_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, q := range stmts {
		if _, err := pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("op=schema.ensure: %w", err)
		}
	}
	return nil
}
