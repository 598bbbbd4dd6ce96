// Package tts wraps the external text-to-speech service that renders
// lyric text into vocal audio. The service is a plain request/response
// boundary: it returns raw WAV bytes or fails, and transient failures
// are retried with bounded exponential backoff.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pulselab/brandtune/internal/audio"
)

// Defaults for retry behavior and voice selection.
const (
	DefaultMaxAttempts = 4
	DefaultBaseDelay   = 500 * time.Millisecond
	DefaultVoice       = "en-US-neutral"
)

// SynthesisError reports exhausted retries or a permanent service
// rejection. It is fatal only for the topic whose lyric it was rendering.
type SynthesisError struct {
	Attempts int
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("vocal synthesis failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Client talks to the TTS service.
type Client struct {
	baseURL     string
	http        *http.Client
	voice       string
	sampleRate  int
	maxAttempts int
	baseDelay   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithVoice selects the service voice.
func WithVoice(voice string) Option {
	return func(c *Client) { c.voice = voice }
}

// WithSampleRate requests a specific output rate from the service.
func WithSampleRate(rate int) Option {
	return func(c *Client) { c.sampleRate = rate }
}

// WithMaxAttempts bounds the retry loop.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the first backoff delay; each retry doubles it.
// Tests use a tiny delay to avoid real sleeps.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a TTS client for the given service base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		http:        &http.Client{Timeout: 30 * time.Second},
		voice:       DefaultVoice,
		sampleRate:  audio.DefaultSampleRate,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type synthesizeRequest struct {
	Text       string `json:"text"`
	Voice      string `json:"voice"`
	SampleRate int    `json:"sample_rate"`
	Format     string `json:"format"`
}

// Synthesize renders lyric text to a vocal track. Network errors and
// 5xx/429 responses are retried with exponential backoff up to the
// attempt bound; any other failure is permanent. On exhaustion it returns
// a *SynthesisError.
func (c *Client) Synthesize(ctx context.Context, text string) (audio.Track, error) {
	body, err := json.Marshal(synthesizeRequest{
		Text:       text,
		Voice:      c.voice,
		SampleRate: c.sampleRate,
		Format:     "wav",
	})
	if err != nil {
		return audio.Track{}, fmt.Errorf("marshal synthesize request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := c.baseDelay << (attempt - 2)
			select {
			case <-ctx.Done():
				return audio.Track{}, &SynthesisError{Attempts: attempt - 1, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		track, retryable, err := c.attempt(ctx, body)
		if err == nil {
			return track, nil
		}
		lastErr = err
		if !retryable {
			return audio.Track{}, &SynthesisError{Attempts: attempt, Err: err}
		}
	}

	return audio.Track{}, &SynthesisError{Attempts: c.maxAttempts, Err: lastErr}
}

// attempt performs one synthesis call. The second return value reports
// whether the failure is transient.
func (c *Client) attempt(ctx context.Context, body []byte) (audio.Track, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/synthesize", bytes.NewReader(body))
	if err != nil {
		return audio.Track{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return audio.Track{}, false, ctx.Err()
		}
		return audio.Track{}, true, fmt.Errorf("call tts service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return audio.Track{}, true, fmt.Errorf("tts service returned %s", resp.Status)
	default:
		io.Copy(io.Discard, resp.Body)
		return audio.Track{}, false, fmt.Errorf("tts service rejected request: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return audio.Track{}, true, fmt.Errorf("read tts response: %w", err)
	}
	if !audio.LooksLikeWAV(data) {
		return audio.Track{}, false, fmt.Errorf("tts response is not WAV audio")
	}

	track, err := audio.DecodeWAV(data)
	if err != nil {
		return audio.Track{}, false, fmt.Errorf("decode tts audio: %w", err)
	}
	return track, false, nil
}
