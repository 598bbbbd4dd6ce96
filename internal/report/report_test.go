package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pulselab/brandtune/internal/audio"
	"github.com/pulselab/brandtune/internal/emotion"
	"github.com/pulselab/brandtune/internal/pipeline"
	"github.com/pulselab/brandtune/internal/topics"
)

func sampleSummary() *pipeline.Summary {
	produced := pipeline.TopicResult{
		Topic: topics.Topic{
			ID:          0,
			Name:        "Billing Overcharge",
			Description: "Sentiment here is concerning; users are consistently complaining about Billing Overcharge.",
			Keywords:    []string{"billing", "overcharge"},
			Size:        12,
			Emotion:     emotion.Vector{Polarity: -0.6, Arousal: 0.7, Label: "angry"},
		},
		Steps: []string{"a", "b", "c", "d"},
		Song: &audio.Song{
			TopicID:    0,
			Path:       "output/songs/topic_0_song.wav",
			Duration:   30 * time.Second,
			SampleRate: 44100,
			Format:     "wav",
		},
	}
	skipped := pipeline.TopicResult{
		Topic: topics.Topic{ID: 1, Name: "Coverage", Size: 5},
		Steps: []string{"a", "b", "c", "d"},
		Err:   errors.New("vocal synthesis failed after 4 attempt(s)"),
	}
	return &pipeline.Summary{
		Intended: 2,
		Produced: 1,
		Skipped:  1,
		Results:  []pipeline.TopicResult{produced, skipped},
	}
}

func TestBuild(t *testing.T) {
	rep := Build("run-1", 40, 5, sampleSummary())

	if rep.TopicsRequested != 5 || rep.TopicsFound != 2 {
		t.Errorf("counts = requested %d found %d, want 5 and 2", rep.TopicsRequested, rep.TopicsFound)
	}
	if rep.SongsProduced != 1 || rep.SongsSkipped != 1 {
		t.Errorf("songs = produced %d skipped %d, want 1 and 1", rep.SongsProduced, rep.SongsSkipped)
	}

	first := rep.Topics[0]
	if first.Status != StatusProduced || first.SongPath == "" || first.DurationMS != 30000 {
		t.Errorf("produced topic entry malformed: %+v", first)
	}
	if first.Description == "" {
		t.Error("produced topic entry dropped the description")
	}

	second := rep.Topics[1]
	if second.Status != StatusSkipped || second.SkipReason == "" || second.SongPath != "" {
		t.Errorf("skipped topic entry malformed: %+v", second)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rep := Build("run-2", 40, 5, sampleSummary())

	path, err := rep.Write(dir)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if path != filepath.Join(dir, FileName) {
		t.Errorf("report path = %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.RunID != "run-2" || len(decoded.Topics) != 2 {
		t.Errorf("decoded report malformed: %+v", decoded)
	}
}
