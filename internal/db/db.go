// Package db provides PostgreSQL persistence for pipeline runs, their
// discovered topics, and the songs produced for them.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors.
var (
	ErrNotFound = errors.New("not found")
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool for advanced operations.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Runs returns a RunRepository.
func (db *DB) Runs() *RunRepository {
	return &RunRepository{pool: db.pool}
}

// Topics returns a TopicRepository.
func (db *DB) Topics() *TopicRepository {
	return &TopicRepository{pool: db.pool}
}

// Songs returns a SongRepository.
func (db *DB) Songs() *SongRepository {
	return &SongRepository{pool: db.pool}
}

// Migrate creates the schema if it does not exist. Runs are the root;
// topics and songs cascade on run deletion.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id UUID PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			documents INTEGER NOT NULL,
			topics_requested INTEGER NOT NULL,
			topics_found INTEGER NOT NULL,
			songs_produced INTEGER NOT NULL,
			songs_skipped INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS topics (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			topic_index INTEGER NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			keywords TEXT[] NOT NULL,
			mentions INTEGER NOT NULL,
			polarity DOUBLE PRECISION NOT NULL,
			arousal DOUBLE PRECISION NOT NULL,
			label TEXT NOT NULL,
			solution_steps TEXT[] NOT NULL,
			status TEXT NOT NULL,
			skip_reason TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS songs (
			id UUID PRIMARY KEY,
			topic_id UUID NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			duration_ms BIGINT NOT NULL,
			sample_rate INTEGER NOT NULL,
			format TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_topics_run_id ON topics(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_songs_topic_id ON songs(topic_id)`,
	}
	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration: %w", err)
		}
	}
	return nil
}
