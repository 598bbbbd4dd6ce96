package db

import (
	"time"

	"github.com/google/uuid"
)

// Run is a single pipeline execution.
type Run struct {
	ID              uuid.UUID
	StartedAt       time.Time
	Documents       int
	TopicsRequested int
	TopicsFound     int
	SongsProduced   int
	SongsSkipped    int
}

// TopicRecord is a discovered topic within a run. TopicIndex is the
// pipeline's stable 0-based topic ID; Status is "produced" or "skipped".
type TopicRecord struct {
	ID            uuid.UUID
	RunID         uuid.UUID
	TopicIndex    int
	Name          string
	Description   string
	Keywords      []string
	Mentions      int
	Polarity      float64
	Arousal       float64
	Label         string
	SolutionSteps []string
	Status        string
	SkipReason    string
}

// SongRecord is an exported song file for a topic.
type SongRecord struct {
	ID         uuid.UUID
	TopicID    uuid.UUID
	Path       string
	DurationMs int64
	SampleRate int
	Format     string
	CreatedAt  time.Time
}
