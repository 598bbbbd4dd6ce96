package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pulselab/brandtune/internal/audio"
	"github.com/pulselab/brandtune/internal/config"
	"github.com/pulselab/brandtune/internal/corpus"
	"github.com/pulselab/brandtune/internal/db"
	"github.com/pulselab/brandtune/internal/emotion"
	"github.com/pulselab/brandtune/internal/logging"
	"github.com/pulselab/brandtune/internal/lyrics"
	"github.com/pulselab/brandtune/internal/pipeline"
	"github.com/pulselab/brandtune/internal/report"
	"github.com/pulselab/brandtune/internal/solutions"
	"github.com/pulselab/brandtune/internal/synth"
	"github.com/pulselab/brandtune/internal/topics"
	"github.com/pulselab/brandtune/internal/tts"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full topic-to-song pipeline",
	Long: `run loads the document corpus, discovers topics, and produces one song
per topic under <output>/songs, plus a report.json describing the run.
A topic whose song cannot be produced is skipped and recorded in the
report; the run only fails outright when the corpus itself is unusable.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("input", "", "corpus JSON file (overrides config)")
	runCmd.Flags().String("output", "", "output directory (overrides config)")
	runCmd.Flags().Int("topics", 0, "number of topics to request (overrides config)")
	runCmd.Flags().String("format", "", "song format, wav or mp3 (overrides config)")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)
	ctx := cmd.Context()

	docs, err := corpus.Load(cfg.Input)
	if err != nil {
		return err
	}
	log.Info("corpus loaded", "path", cfg.Input, "documents", len(docs))

	engineCfg := topics.DefaultConfig()
	engineCfg.Seed = cfg.Seed
	found, err := topics.NewEngine(engineCfg).Discover(docs, cfg.Topics)
	if err != nil {
		if errors.Is(err, topics.ErrInsufficientData) {
			return fmt.Errorf("cannot run pipeline: %w", err)
		}
		return err
	}
	log.Info("topics discovered", "requested", cfg.Topics, "found", len(found))

	encoder, err := selectEncoder(cfg.Format)
	if err != nil {
		return err
	}

	solver, err := solutions.New()
	if err != nil {
		return err
	}

	vocals := tts.NewClient(cfg.TTS.BaseURL,
		tts.WithVoice(cfg.TTS.Voice),
		tts.WithSampleRate(cfg.SampleRate),
		tts.WithMaxAttempts(cfg.TTS.MaxAttempts),
		tts.WithBaseDelay(cfg.TTS.BaseDelay),
	)

	p := pipeline.New(pipeline.Deps{
		Mapper:       emotion.Mapper{SongDuration: cfg.Duration},
		Solutions:    solver,
		Lyrics:       lyrics.NewComposer(cfg.Duration),
		Vocals:       vocals,
		Instrumental: synth.NewComposer(cfg.SampleRate, cfg.Seed),
		Encoder:      encoder,
		Logger:       log,
	}, pipeline.Config{
		OutputDir:    cfg.OutputDir,
		SongDuration: cfg.Duration,
		Workers:      cfg.Workers,
	})

	started := time.Now().UTC()
	sum, err := p.Run(ctx, found)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	rep := report.Build(runID, len(docs), cfg.Topics, sum)
	reportPath, err := rep.Write(cfg.OutputDir)
	if err != nil {
		return err
	}
	log.Info("report written", "path", reportPath)

	if cfg.DatabaseURL != "" {
		if err := persistRun(ctx, cfg.DatabaseURL, runID, started, rep, cfg.SampleRate); err != nil {
			// Persistence is auxiliary; the songs and report already exist.
			log.Error("persisting run", "error", err)
		}
	}

	fmt.Fprintf(os.Stdout, "Run %s: %d/%d songs produced (%d skipped), report at %s\n",
		runID, sum.Produced, sum.Intended, sum.Skipped, reportPath)
	return nil
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("input"); v != "" {
		cfg.Input = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetInt("topics"); v > 0 {
		cfg.Topics = v
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		cfg.Format = v
	}
}

// selectEncoder picks the output codec. MP3 needs ffmpeg on PATH, and a
// missing binary fails the whole run up front rather than per topic.
func selectEncoder(format string) (audio.Encoder, error) {
	if format == "mp3" {
		return audio.NewMP3Encoder()
	}
	return audio.WAVEncoder{}, nil
}

// persistRun mirrors the report into PostgreSQL for later querying.
func persistRun(ctx context.Context, databaseURL, runID string, started time.Time, rep report.Report, sampleRate int) error {
	database, err := db.New(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}

	id, err := uuid.Parse(runID)
	if err != nil {
		return fmt.Errorf("parsing run ID: %w", err)
	}

	run := &db.Run{
		ID:              id,
		StartedAt:       started,
		Documents:       rep.Documents,
		TopicsRequested: rep.TopicsRequested,
		TopicsFound:     rep.TopicsFound,
		SongsProduced:   rep.SongsProduced,
		SongsSkipped:    rep.SongsSkipped,
	}
	if err := database.Runs().Create(ctx, run); err != nil {
		return err
	}

	records := make([]*db.TopicRecord, 0, len(rep.Topics))
	for _, entry := range rep.Topics {
		records = append(records, &db.TopicRecord{
			RunID:         run.ID,
			TopicIndex:    entry.ID,
			Name:          entry.Name,
			Description:   entry.Description,
			Keywords:      entry.Keywords,
			Mentions:      entry.Mentions,
			Polarity:      entry.Emotion.Polarity,
			Arousal:       entry.Emotion.Arousal,
			Label:         entry.Emotion.Label,
			SolutionSteps: entry.Steps,
			Status:        entry.Status,
			SkipReason:    entry.SkipReason,
		})
	}
	if err := database.Topics().CreateBatch(ctx, records); err != nil {
		return err
	}

	for i, entry := range rep.Topics {
		if entry.Status != report.StatusProduced {
			continue
		}
		song := &db.SongRecord{
			TopicID:    records[i].ID,
			Path:       entry.SongPath,
			DurationMs: entry.DurationMS,
			SampleRate: sampleRate,
			Format:     entry.SongFormat,
		}
		if err := database.Songs().Create(ctx, song); err != nil {
			return err
		}
	}
	return nil
}
