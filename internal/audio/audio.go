// Package audio holds the PCM track model, WAV codec, mixer, and file
// exporters shared by the synthesis pipeline.
package audio

import "time"

// DefaultSampleRate is the pipeline-wide sample rate in Hz.
const DefaultSampleRate = 44100

// Track is a decoded mono audio signal with samples in [-1, 1].
type Track struct {
	Samples    []float64
	SampleRate int
	Channels   int
}

// NewTrack allocates an empty mono track at the given rate.
func NewTrack(sampleRate int) Track {
	return Track{SampleRate: sampleRate, Channels: 1}
}

// Duration returns the track length.
func (t Track) Duration() time.Duration {
	if t.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(t.Samples)) / float64(t.SampleRate) * float64(time.Second))
}

// Song is the exported per-topic artifact. It is created once by the mix
// step and never mutated afterwards.
type Song struct {
	TopicID    int
	Path       string
	Duration   time.Duration
	SampleRate int
	Format     string
}

// clip bounds a sample to [-1, 1].
func clip(s float64) float64 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
