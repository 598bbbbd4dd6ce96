// Package config loads pipeline configuration from file, environment,
// and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full pipeline configuration.
type Config struct {
	Input     string        `mapstructure:"input"`
	OutputDir string        `mapstructure:"output_dir"`
	Topics    int           `mapstructure:"topics"`
	Seed      int64         `mapstructure:"seed"`
	Workers   int           `mapstructure:"workers"`
	Duration  time.Duration `mapstructure:"song_duration"`

	SampleRate int    `mapstructure:"sample_rate"`
	Format     string `mapstructure:"format"`

	LogLevel    string `mapstructure:"log_level"`
	DatabaseURL string `mapstructure:"database_url"`

	TTS   TTSConfig   `mapstructure:"tts"`
	Serve ServeConfig `mapstructure:"serve"`
}

// TTSConfig configures the vocal synthesis service client.
type TTSConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Voice       string        `mapstructure:"voice"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
}

// ServeConfig configures the artifact server.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from the given file (optional), the
// BRANDTUNE_* environment, and built-in defaults, in that precedence.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("input", "documents.json")
	v.SetDefault("output_dir", "output")
	v.SetDefault("topics", 5)
	v.SetDefault("seed", 42)
	v.SetDefault("workers", 4)
	v.SetDefault("song_duration", 30*time.Second)
	v.SetDefault("sample_rate", 44100)
	v.SetDefault("format", "wav")
	v.SetDefault("log_level", "info")
	v.SetDefault("tts.base_url", "http://127.0.0.1:5002")
	v.SetDefault("tts.voice", "narrator")
	v.SetDefault("tts.max_attempts", 4)
	v.SetDefault("tts.base_delay", 500*time.Millisecond)
	v.SetDefault("serve.addr", "127.0.0.1:8080")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("brandtune")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BRANDTUNE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Topics < 1 {
		return fmt.Errorf("topics must be at least 1, got %d", c.Topics)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("song_duration must be positive, got %s", c.Duration)
	}
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample_rate must be at least 8000, got %d", c.SampleRate)
	}
	switch c.Format {
	case "wav", "mp3":
	default:
		return fmt.Errorf("format must be wav or mp3, got %q", c.Format)
	}
	return nil
}
