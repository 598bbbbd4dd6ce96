package audio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrEncoderUnavailable signals that the external encoding dependency is
// missing. It is an environment problem for the operator, never silently
// skipped.
var ErrEncoderUnavailable = errors.New("audio encoder unavailable")

// ExportError wraps a failure to write the final song file.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("exporting %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Encoder writes a finished track to disk in one output format.
type Encoder interface {
	Encode(t Track, path string) error
	Ext() string
}

// WAVEncoder writes uncompressed PCM and has no external dependency.
type WAVEncoder struct{}

func (WAVEncoder) Ext() string { return "wav" }

func (WAVEncoder) Encode(t Track, path string) error {
	if err := os.WriteFile(path, EncodeWAV(t), 0o644); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

// MP3Encoder pipes WAV bytes through ffmpeg. Construction fails when
// ffmpeg is not on PATH.
type MP3Encoder struct {
	ffmpeg  string
	bitrate string
}

// NewMP3Encoder locates ffmpeg. Returns ErrEncoderUnavailable when the
// binary cannot be found.
func NewMP3Encoder() (*MP3Encoder, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH", ErrEncoderUnavailable)
	}
	return &MP3Encoder{ffmpeg: path, bitrate: "128k"}, nil
}

func (e *MP3Encoder) Ext() string { return "mp3" }

func (e *MP3Encoder) Encode(t Track, path string) error {
	cmd := exec.Command(e.ffmpeg,
		"-y",
		"-f", "wav",
		"-i", "pipe:0",
		"-b:a", e.bitrate,
		"-loglevel", "error",
		path,
	)
	cmd.Stdin = bytes.NewReader(EncodeWAV(t))

	if out, err := cmd.CombinedOutput(); err != nil {
		return &ExportError{Path: path, Err: fmt.Errorf("ffmpeg: %v: %s", err, bytes.TrimSpace(out))}
	}
	return nil
}
