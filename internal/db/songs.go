package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SongRepository handles song database operations.
type SongRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new song record.
func (r *SongRepository) Create(ctx context.Context, song *SongRecord) error {
	if song.ID == uuid.Nil {
		song.ID = uuid.New()
	}
	query := `
		INSERT INTO songs (id, topic_id, path, duration_ms, sample_rate, format)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		song.ID,
		song.TopicID,
		song.Path,
		song.DurationMs,
		song.SampleRate,
		song.Format,
	).Scan(&song.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting song: %w", err)
	}
	return nil
}

// GetForTopic retrieves the song recorded for a topic, if any.
func (r *SongRepository) GetForTopic(ctx context.Context, topicID uuid.UUID) (*SongRecord, error) {
	query := `
		SELECT id, topic_id, path, duration_ms, sample_rate, format, created_at
		FROM songs
		WHERE topic_id = $1
	`
	var song SongRecord
	err := r.pool.QueryRow(ctx, query, topicID).Scan(
		&song.ID,
		&song.TopicID,
		&song.Path,
		&song.DurationMs,
		&song.SampleRate,
		&song.Format,
		&song.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying song: %w", err)
	}
	return &song, nil
}

