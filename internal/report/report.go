// Package report writes the per-run metadata artifact consumed by the
// reporting and visualization collaborators.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pulselab/brandtune/internal/pipeline"
)

// FileName is the report artifact name under the output root.
const FileName = "report.json"

// Topic statuses.
const (
	StatusProduced = "produced"
	StatusSkipped  = "skipped"
)

// EmotionSummary is the aggregated emotion of a topic, flattened for the
// report consumer.
type EmotionSummary struct {
	Polarity float64 `json:"polarity"`
	Arousal  float64 `json:"arousal"`
	Label    string  `json:"label,omitempty"`
}

// TopicEntry is the report view of one topic.
type TopicEntry struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Keywords    []string       `json:"keywords"`
	Mentions    int            `json:"mentions"`
	Emotion     EmotionSummary `json:"emotion"`
	Steps       []string       `json:"solution_steps"`
	Status      string         `json:"status"`
	SkipReason  string         `json:"skip_reason,omitempty"`
	SongPath    string         `json:"song_path,omitempty"`
	SongFormat  string         `json:"song_format,omitempty"`
	DurationMS  int64          `json:"song_duration_ms,omitempty"`
}

// Report is the full run artifact.
type Report struct {
	RunID           string       `json:"run_id"`
	GeneratedAt     time.Time    `json:"generated_at"`
	Documents       int          `json:"documents"`
	TopicsRequested int          `json:"topics_requested"`
	TopicsFound     int          `json:"topics_found"`
	SongsProduced   int          `json:"songs_produced"`
	SongsSkipped    int          `json:"songs_skipped"`
	Topics          []TopicEntry `json:"topics"`
}

// Build assembles the report from a pipeline summary.
func Build(runID string, documents, requested int, sum *pipeline.Summary) Report {
	rep := Report{
		RunID:           runID,
		GeneratedAt:     time.Now().UTC(),
		Documents:       documents,
		TopicsRequested: requested,
		TopicsFound:     sum.Intended,
		SongsProduced:   sum.Produced,
		SongsSkipped:    sum.Skipped,
	}

	for _, res := range sum.Results {
		entry := TopicEntry{
			ID:          res.Topic.ID,
			Name:        res.Topic.Name,
			Description: res.Topic.Description,
			Keywords:    res.Topic.Keywords,
			Mentions:    res.Topic.Size,
			Emotion: EmotionSummary{
				Polarity: res.Topic.Emotion.Polarity,
				Arousal:  res.Topic.Emotion.Arousal,
				Label:    res.Topic.Emotion.Label,
			},
			Steps: res.Steps,
		}
		if res.Produced() {
			entry.Status = StatusProduced
			entry.SongPath = res.Song.Path
			entry.SongFormat = res.Song.Format
			entry.DurationMS = res.Song.Duration.Milliseconds()
		} else {
			entry.Status = StatusSkipped
			if res.Err != nil {
				entry.SkipReason = res.Err.Error()
			}
		}
		rep.Topics = append(rep.Topics, entry)
	}
	return rep
}

// Write persists the report under the output root and returns its path.
func (r Report) Write(outputDir string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	path := filepath.Join(outputDir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
