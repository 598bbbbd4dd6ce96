// Package synth procedurally renders the instrumental bed from music
// parameters: note sequencing over a scale, waveform synthesis, and
// time-exact assembly.
package synth

import "math"

// Scale intervals in semitones above the base pitch, spanning one octave.
// Sequencing extends them across a second octave.
var scaleIntervals = map[string][]int{
	"major":            {0, 2, 4, 5, 7, 9, 11},
	"natural_minor":    {0, 2, 3, 5, 7, 8, 10},
	"major_pentatonic": {0, 2, 4, 7, 9},
	"minor_pentatonic": {0, 3, 5, 7, 10},
}

// fallbackScale is used when parameters name an unknown scale.
const fallbackScale = "major_pentatonic"

// intervalsFor resolves a scale name, falling back rather than failing so
// composition stays total over parameter space.
func intervalsFor(name string) []int {
	if iv, ok := scaleIntervals[name]; ok {
		return iv
	}
	return scaleIntervals[fallbackScale]
}

// noteFreq returns the equal-temperament frequency a given number of
// semitones above the base pitch.
func noteFreq(baseHz float64, semitones int) float64 {
	return baseHz * math.Pow(2, float64(semitones)/12)
}
