package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRepository handles run database operations.
type RunRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new run.
func (r *RunRepository) Create(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	query := `
		INSERT INTO runs (id, started_at, documents, topics_requested, topics_found, songs_produced, songs_skipped)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.StartedAt,
		run.Documents,
		run.TopicsRequested,
		run.TopicsFound,
		run.SongsProduced,
		run.SongsSkipped,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `
		SELECT id, started_at, documents, topics_requested, topics_found, songs_produced, songs_skipped
		FROM runs
		WHERE id = $1
	`
	var run Run
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.StartedAt,
		&run.Documents,
		&run.TopicsRequested,
		&run.TopicsFound,
		&run.SongsProduced,
		&run.SongsSkipped,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return &run, nil
}

// List retrieves the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, started_at, documents, topics_requested, topics_found, songs_produced, songs_skipped
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.Documents,
			&run.TopicsRequested,
			&run.TopicsFound,
			&run.SongsProduced,
			&run.SongsSkipped,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Delete removes a run and, via cascade, its topics and songs.
func (r *RunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM runs WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
