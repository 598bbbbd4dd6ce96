package audio

import (
	"math"
	"testing"
	"time"
)

func toneTrack(d time.Duration, rate int, freq, amp float64) Track {
	n := int(float64(rate) * d.Seconds())
	t := Track{Samples: make([]float64, n), SampleRate: rate, Channels: 1}
	for i := range t.Samples {
		t.Samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return t
}

func TestMixExactTargetDuration(t *testing.T) {
	const rate = 44100
	target := 30 * time.Second
	wantSamples := 30 * rate

	tests := []struct {
		name  string
		vocal Track
		bed   Track
	}{
		{
			name:  "vocal longer than target is truncated",
			vocal: toneTrack(45*time.Second, rate, 220, 0.5),
			bed:   toneTrack(30*time.Second, rate, 110, 0.5),
		},
		{
			name:  "vocal shorter than target",
			vocal: toneTrack(12*time.Second, rate, 220, 0.5),
			bed:   toneTrack(30*time.Second, rate, 110, 0.5),
		},
		{
			name:  "both equal to target",
			vocal: toneTrack(30*time.Second, rate, 220, 0.5),
			bed:   toneTrack(30*time.Second, rate, 110, 0.5),
		},
		{
			name:  "empty vocal",
			vocal: NewTrack(rate),
			bed:   toneTrack(30*time.Second, rate, 110, 0.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Mix(tt.vocal, tt.bed, target)
			if err != nil {
				t.Fatalf("Mix() error: %v", err)
			}
			if len(got.Samples) != wantSamples {
				t.Errorf("mixed length = %d samples, want exactly %d", len(got.Samples), wantSamples)
			}
			if got.Duration() != target {
				t.Errorf("mixed duration = %v, want %v", got.Duration(), target)
			}
		})
	}
}

func TestMixTruncatesVocalContent(t *testing.T) {
	const rate = 8000
	// Constant-amplitude vocal makes truncation visible at the boundary.
	vocal := Track{Samples: make([]float64, 45*rate), SampleRate: rate, Channels: 1}
	for i := range vocal.Samples {
		vocal.Samples[i] = 0.5
	}
	bed := NewTrack(rate)

	got, err := Mix(vocal, bed, 30*time.Second)
	if err != nil {
		t.Fatalf("Mix() error: %v", err)
	}
	if len(got.Samples) != 30*rate {
		t.Fatalf("mixed length = %d, want %d", len(got.Samples), 30*rate)
	}
	if got.Samples[30*rate-1] == 0 {
		t.Error("vocal missing right before the cut point")
	}
}

func TestMixNeverClips(t *testing.T) {
	const rate = 8000
	loud := func(d time.Duration) Track {
		tr := Track{Samples: make([]float64, int(float64(rate)*d.Seconds())), SampleRate: rate, Channels: 1}
		for i := range tr.Samples {
			tr.Samples[i] = 1.0
		}
		return tr
	}

	got, err := Mix(loud(10*time.Second), loud(10*time.Second), 10*time.Second)
	if err != nil {
		t.Fatalf("Mix() error: %v", err)
	}
	for i, s := range got.Samples {
		if s > 1 || s < -1 {
			t.Fatalf("sample %d = %v outside [-1, 1]", i, s)
		}
	}
}

func TestMixResamplesVocal(t *testing.T) {
	vocal := toneTrack(5*time.Second, 22050, 220, 0.5)
	bed := toneTrack(10*time.Second, 44100, 110, 0.5)

	got, err := Mix(vocal, bed, 10*time.Second)
	if err != nil {
		t.Fatalf("Mix() error: %v", err)
	}
	if got.SampleRate != 44100 {
		t.Errorf("mixed sample rate = %d, want 44100", got.SampleRate)
	}
	if len(got.Samples) != 10*44100 {
		t.Errorf("mixed length = %d, want %d", len(got.Samples), 10*44100)
	}
}

func TestMixRejectsBadTarget(t *testing.T) {
	bed := toneTrack(time.Second, 8000, 110, 0.5)
	if _, err := Mix(NewTrack(8000), bed, 0); err == nil {
		t.Error("Mix() with zero target did not fail")
	}
	if _, err := Mix(NewTrack(8000), bed, -time.Second); err == nil {
		t.Error("Mix() with negative target did not fail")
	}
}
