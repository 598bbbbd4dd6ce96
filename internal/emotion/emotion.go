// Package emotion defines the emotion vector attached to documents by the
// upstream classifier and its deterministic mapping to music parameters.
package emotion

import "math"

// Vector is the per-document emotion produced by the sentiment classifier.
// Polarity runs from -1 (negative) to +1 (positive), arousal from 0 (calm)
// to 1 (agitated). Label is the classifier's optional categorical tag.
type Vector struct {
	Polarity   float64 `json:"polarity"`
	Arousal    float64 `json:"arousal"`
	Label      string  `json:"label,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Neutral returns the fallback emotion used when classifier output is
// missing or out of range.
func Neutral() Vector {
	return Vector{Polarity: 0, Arousal: 0.35, Label: "neutral", Confidence: 0}
}

// Valid reports whether both continuous axes hold finite values.
func (v Vector) Valid() bool {
	return !math.IsNaN(v.Polarity) && !math.IsInf(v.Polarity, 0) &&
		!math.IsNaN(v.Arousal) && !math.IsInf(v.Arousal, 0)
}

// Clamped returns the vector with polarity forced into [-1, 1] and arousal
// into [0, 1]. Non-finite values collapse to the neutral vector.
func (v Vector) Clamped() Vector {
	if !v.Valid() {
		return Neutral()
	}
	v.Polarity = clamp(v.Polarity, -1, 1)
	v.Arousal = clamp(v.Arousal, 0, 1)
	return v
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
