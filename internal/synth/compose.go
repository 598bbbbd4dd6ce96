package synth

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/pulselab/brandtune/internal/audio"
	"github.com/pulselab/brandtune/internal/emotion"
)

// Note and octave sequencing constants.
const (
	octaveSpan  = 2    // scale degrees walk across two octaves
	fifthGain   = 0.5  // harmony a fifth up, quieter than the root
	noteGain    = 0.8  // overall level before mixing
	envelopeSec = 0.01 // linear attack/release to avoid clicks
)

var errBadDuration = errors.New("composition duration must be positive")

// Composer renders instrumental tracks. Seed fixes the note walk so the
// same parameters and duration always produce the same audio.
type Composer struct {
	SampleRate int
	Seed       int64
}

// NewComposer returns a composer at the given sample rate.
func NewComposer(sampleRate int, seed int64) *Composer {
	if sampleRate <= 0 {
		sampleRate = audio.DefaultSampleRate
	}
	return &Composer{SampleRate: sampleRate, Seed: seed}
}

// Compose generates a tone-segment sequence from the parameter-selected
// scale at the parameter-selected tempo, concatenated to exactly the
// requested duration. The final note is truncated, never overrun, so the
// output length always equals the request to the sample.
func (c *Composer) Compose(p emotion.MusicParameters, d time.Duration) (audio.Track, error) {
	if d <= 0 {
		return audio.Track{}, errBadDuration
	}
	tempo := p.TempoBPM
	if tempo <= 0 {
		tempo = 90
	}

	totalSamples := int(float64(c.SampleRate)*d.Seconds() + 0.5)
	noteSamples := int(float64(c.SampleRate) * 60 / tempo)
	if noteSamples < 1 {
		noteSamples = 1
	}

	intervals := intervalsFor(p.Scale)
	degrees := len(intervals) * octaveSpan
	rng := rand.New(rand.NewSource(c.Seed))

	track := audio.Track{
		Samples:    make([]float64, totalSamples),
		SampleRate: c.SampleRate,
		Channels:   1,
	}

	degree := rng.Intn(degrees)
	for pos := 0; pos < totalSamples; pos += noteSamples {
		n := noteSamples
		if pos+n > totalSamples {
			n = totalSamples - pos // truncate the last segment
		}

		semitones := intervals[degree%len(intervals)] + 12*(degree/len(intervals))
		c.renderNote(track.Samples[pos:pos+n], noteFreq(p.BasePitchHz, semitones), p.Timbre, n == noteSamples)

		// Bounded random walk over scale degrees keeps the line coherent.
		degree += rng.Intn(5) - 2
		if degree < 0 {
			degree = 0
		}
		if degree >= degrees {
			degree = degrees - 1
		}
	}

	return track, nil
}

// renderNote writes one tone segment with its fifth harmony and a short
// attack/release envelope. Truncated closing segments skip the release.
func (c *Composer) renderNote(dst []float64, freq float64, timbre emotion.Timbre, full bool) {
	env := int(envelopeSec * float64(c.SampleRate))
	fifth := freq * 1.5

	for i := range dst {
		t := float64(i) / float64(c.SampleRate)
		s := waveform(timbre, freq, t) + fifthGain*waveform(timbre, fifth, t)

		gain := noteGain
		if i < env {
			gain *= float64(i) / float64(env)
		}
		if full && len(dst)-i < env {
			gain *= float64(len(dst)-i) / float64(env)
		}
		dst[i] = s * gain / (1 + fifthGain)
	}
}

// waveform evaluates one timbre-dependent periodic signal at time t.
func waveform(timbre emotion.Timbre, freq, t float64) float64 {
	phase := freq * t
	switch timbre {
	case emotion.TimbreHarsh: // square
		if math.Sin(2*math.Pi*phase) >= 0 {
			return 0.6
		}
		return -0.6
	case emotion.TimbreBright: // sawtooth
		return 0.6 * (2*math.Mod(phase, 1) - 1)
	case emotion.TimbreMellow: // triangle
		return 0.8 * (2*math.Abs(2*math.Mod(phase, 1)-1) - 1)
	default: // sine
		return math.Sin(2 * math.Pi * phase)
	}
}
