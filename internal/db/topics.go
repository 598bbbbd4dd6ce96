package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TopicRepository handles topic database operations.
type TopicRepository struct {
	pool *pgxpool.Pool
}

// CreateBatch inserts all topics of a run in one transaction.
func (r *TopicRepository) CreateBatch(ctx context.Context, records []*TopicRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO topics (id, run_id, topic_index, name, description, keywords, mentions, polarity, arousal, label, solution_steps, status, skip_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	for _, rec := range records {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		_, err := tx.Exec(ctx, query,
			rec.ID,
			rec.RunID,
			rec.TopicIndex,
			rec.Name,
			rec.Description,
			rec.Keywords,
			rec.Mentions,
			rec.Polarity,
			rec.Arousal,
			rec.Label,
			rec.SolutionSteps,
			rec.Status,
			rec.SkipReason,
		)
		if err != nil {
			return fmt.Errorf("inserting topic %d: %w", rec.TopicIndex, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetForRun retrieves all topics of a run in pipeline order.
func (r *TopicRepository) GetForRun(ctx context.Context, runID uuid.UUID) ([]TopicRecord, error) {
	query := `
		SELECT id, run_id, topic_index, name, description, keywords, mentions, polarity, arousal, label, solution_steps, status, skip_reason
		FROM topics
		WHERE run_id = $1
		ORDER BY topic_index ASC
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run topics: %w", err)
	}
	defer rows.Close()

	var records []TopicRecord
	for rows.Next() {
		var rec TopicRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.TopicIndex,
			&rec.Name,
			&rec.Description,
			&rec.Keywords,
			&rec.Mentions,
			&rec.Polarity,
			&rec.Arousal,
			&rec.Label,
			&rec.SolutionSteps,
			&rec.Status,
			&rec.SkipReason,
		); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
