package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Statements are idempotent so Ensure can run on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		seq BIGSERIAL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		exercise_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		duration_min INTEGER NOT NULL,
		logged_on DATE NOT NULL,
		seq BIGSERIAL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS exercises_user_logged_on_idx
		ON exercises (user_id, logged_on)`,
	`CREATE TABLE IF NOT EXISTS outbox (
		event_id BIGSERIAL PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		topic TEXT NOT NULL,
		partition_key TEXT NOT NULL,
		payload JSONB NOT NULL,
		dedupe_key TEXT UNIQUE,
		claimed_at TIMESTAMPTZ,
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the tracker tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
