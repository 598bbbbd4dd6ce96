// Package pipeline runs the per-topic song generation flow: solution
// synthesis, lyric composition, vocal synthesis, instrumental rendering,
// and the final mix. Topics are processed independently so one topic's
// failure never aborts its siblings.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pulselab/brandtune/internal/audio"
	"github.com/pulselab/brandtune/internal/emotion"
	"github.com/pulselab/brandtune/internal/topics"
)

// Collaborator interfaces, injected so tests can substitute deterministic
// fakes for the network and encoder boundaries.
type (
	// SolutionSynthesizer produces the fixed action plan for a topic.
	SolutionSynthesizer interface {
		Propose(t topics.Topic) []string
	}

	// LyricsComposer renders lyric text from a topic and its plan.
	LyricsComposer interface {
		Compose(t topics.Topic, steps []string) string
	}

	// VocalSynthesizer converts lyric text into a vocal track.
	VocalSynthesizer interface {
		Synthesize(ctx context.Context, text string) (audio.Track, error)
	}

	// InstrumentalComposer renders the background bed.
	InstrumentalComposer interface {
		Compose(p emotion.MusicParameters, d time.Duration) (audio.Track, error)
	}
)

// Deps wires the collaborators into a Pipeline.
type Deps struct {
	Mapper       emotion.Mapper
	Solutions    SolutionSynthesizer
	Lyrics       LyricsComposer
	Vocals       VocalSynthesizer
	Instrumental InstrumentalComposer
	Encoder      audio.Encoder
	Logger       *slog.Logger
}

// Config controls output placement and parallelism.
type Config struct {
	OutputDir    string
	SongDuration time.Duration
	Workers      int
}

// Pipeline generates one song per topic.
type Pipeline struct {
	deps Deps
	cfg  Config
}

// New creates a pipeline. Zero workers means 4; a nil logger is replaced
// with the default.
func New(deps Deps, cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.SongDuration <= 0 {
		cfg.SongDuration = emotion.DefaultSongDuration
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Pipeline{deps: deps, cfg: cfg}
}

// TopicResult is the outcome for a single topic: either a Song or the
// error that skipped it.
type TopicResult struct {
	Topic  topics.Topic
	Steps  []string
	Lyrics string
	Params emotion.MusicParameters
	Song   *audio.Song
	Err    error
}

// Produced reports whether the topic yielded a song.
func (r TopicResult) Produced() bool { return r.Err == nil && r.Song != nil }

// Summary aggregates a whole run.
type Summary struct {
	Intended int
	Produced int
	Skipped  int
	Results  []TopicResult
}

// Run generates songs for all topics using a bounded worker pool. Errors
// local to one topic are recorded on its result and never propagate to
// siblings; Run itself only fails when the songs directory cannot be
// created.
func (p *Pipeline) Run(ctx context.Context, list []topics.Topic) (*Summary, error) {
	songsDir := filepath.Join(p.cfg.OutputDir, "songs")
	if err := os.MkdirAll(songsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating songs directory: %w", err)
	}

	results := make([]TopicResult, len(list))
	sem := make(chan struct{}, p.cfg.Workers)
	var wg sync.WaitGroup

	for i, topic := range list {
		wg.Add(1)
		go func(i int, topic topics.Topic) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = p.runTopic(ctx, topic, songsDir)
		}(i, topic)
	}
	wg.Wait()

	sort.Slice(results, func(a, b int) bool {
		return results[a].Topic.ID < results[b].Topic.ID
	})

	sum := &Summary{Intended: len(list), Results: results}
	for _, r := range results {
		if r.Produced() {
			sum.Produced++
		} else {
			sum.Skipped++
		}
	}
	return sum, nil
}

// runTopic executes the full flow for one topic. The output file name is
// partitioned by topic ID so parallel topics never collide.
func (p *Pipeline) runTopic(ctx context.Context, topic topics.Topic, songsDir string) TopicResult {
	log := p.deps.Logger.With("topic", topic.ID)

	res := TopicResult{Topic: topic}
	res.Steps = p.deps.Solutions.Propose(topic)
	res.Params = p.deps.Mapper.Map(topic.Emotion)
	res.Lyrics = p.deps.Lyrics.Compose(topic, res.Steps)

	log.Info("synthesizing vocals", "lyric_chars", len(res.Lyrics))
	vocal, err := p.deps.Vocals.Synthesize(ctx, res.Lyrics)
	if err != nil {
		log.Warn("topic skipped: vocal synthesis failed", "error", err)
		res.Err = err
		return res
	}

	bed, err := p.deps.Instrumental.Compose(res.Params, p.cfg.SongDuration)
	if err != nil {
		log.Warn("topic skipped: instrumental composition failed", "error", err)
		res.Err = err
		return res
	}

	mixed, err := audio.Mix(vocal, bed, p.cfg.SongDuration)
	if err != nil {
		log.Warn("topic skipped: mix failed", "error", err)
		res.Err = err
		return res
	}

	path := filepath.Join(songsDir, fmt.Sprintf("topic_%d_song.%s", topic.ID, p.deps.Encoder.Ext()))
	if err := p.deps.Encoder.Encode(mixed, path); err != nil {
		log.Warn("topic skipped: export failed", "error", err)
		res.Err = err
		return res
	}

	res.Song = &audio.Song{
		TopicID:    topic.ID,
		Path:       path,
		Duration:   mixed.Duration(),
		SampleRate: mixed.SampleRate,
		Format:     p.deps.Encoder.Ext(),
	}
	log.Info("song exported", "path", path, "duration", res.Song.Duration)
	return res
}
