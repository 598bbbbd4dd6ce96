package emotion

import (
	"math"
	"time"
)

// Mode is the tonal mode of the generated instrumental.
type Mode string

// Tonal modes.
const (
	ModeMajor Mode = "major"
	ModeMinor Mode = "minor"
)

// Timbre names the waveform family used to render notes.
type Timbre string

// Timbres, ordered roughly from soft to harsh.
const (
	TimbreSoft   Timbre = "soft"   // sine
	TimbreMellow Timbre = "mellow" // triangle
	TimbreBright Timbre = "bright" // sawtooth
	TimbreHarsh  Timbre = "harsh"  // square
)

// MusicParameters is the musical character derived from a topic's
// aggregated emotion. It is a pure function of the emotion vector: the
// same input always yields the same parameters.
type MusicParameters struct {
	TempoBPM    float64
	Mode        Mode
	Scale       string // scale name understood by the synth package
	BasePitchHz float64
	Brightness  float64 // 0 (dark) .. 1 (bright), continuous in polarity
	Timbre      Timbre
	Duration    time.Duration
}

// Tempo range. Tempo grows linearly with arousal so that topics of similar
// emotion land on similar tempi rather than jumping between bands.
const (
	tempoMin = 70
	tempoMax = 180
)

// Base pitch range, A2 to A3. Brighter emotions sit higher.
const (
	basePitchLow  = 110.0
	basePitchHigh = 220.0
)

// DefaultSongDuration is the fixed target length of every generated song.
const DefaultSongDuration = 30 * time.Second

// Mapper converts emotion vectors into music parameters. The zero value
// uses DefaultSongDuration.
type Mapper struct {
	SongDuration time.Duration
}

// Map derives music parameters from an emotion vector. It is total:
// out-of-range or non-finite inputs fall back to the clamped or neutral
// vector instead of failing.
func (m Mapper) Map(v Vector) MusicParameters {
	v = v.Clamped()

	duration := m.SongDuration
	if duration <= 0 {
		duration = DefaultSongDuration
	}

	brightness := (v.Polarity + 1) / 2

	p := MusicParameters{
		TempoBPM:    tempoMin + (tempoMax-tempoMin)*v.Arousal,
		Brightness:  brightness,
		BasePitchHz: basePitchLow * math.Pow(basePitchHigh/basePitchLow, brightness),
		Duration:    duration,
	}

	if v.Polarity < 0 {
		p.Mode = ModeMinor
		p.Scale = "minor_pentatonic"
	} else {
		p.Mode = ModeMajor
		p.Scale = "major_pentatonic"
	}

	// Timbre by energy/valence quadrant: agitated negative topics get the
	// harshest waveform, calm positive ones the softest.
	highArousal := v.Arousal > 0.6
	positive := v.Polarity >= 0
	switch {
	case highArousal && !positive:
		p.Timbre = TimbreHarsh
	case highArousal && positive:
		p.Timbre = TimbreBright
	case !highArousal && positive:
		p.Timbre = TimbreSoft
	default:
		p.Timbre = TimbreMellow
	}

	return p
}
