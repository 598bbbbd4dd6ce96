package audio

import (
	"errors"
	"fmt"
	"time"
)

// Layer gains applied before summation, plus the headroom ceiling the
// summed signal is normalized under when it would otherwise clip.
const (
	vocalGain   = 0.9
	bedGain     = 0.35
	peakCeiling = 0.98
)

var errBadTarget = errors.New("target duration must be positive")

// Mix overlays a vocal track on an instrumental bed and returns a track
// of exactly the target duration. Both layers start at time zero. A vocal
// longer than the target is truncated; a shorter one leaves the bed
// playing underneath. The result never extends past the target.
func Mix(vocal, bed Track, target time.Duration) (Track, error) {
	if target <= 0 {
		return Track{}, errBadTarget
	}

	rate := bed.SampleRate
	if rate <= 0 {
		rate = vocal.SampleRate
	}
	if rate <= 0 {
		return Track{}, fmt.Errorf("mix: no sample rate on either layer")
	}

	if vocal.SampleRate != rate && len(vocal.Samples) > 0 {
		vocal = Resample(vocal, rate)
	}

	n := int(float64(rate)*target.Seconds() + 0.5)
	out := Track{Samples: make([]float64, n), SampleRate: rate, Channels: 1}

	for i := 0; i < n && i < len(bed.Samples); i++ {
		out.Samples[i] = bed.Samples[i] * bedGain
	}
	for i := 0; i < n && i < len(vocal.Samples); i++ {
		out.Samples[i] += vocal.Samples[i] * vocalGain
	}

	// Peak-normalize only when the sum would clip, so quiet mixes keep
	// their level.
	var peak float64
	for _, s := range out.Samples {
		if s > peak {
			peak = s
		} else if -s > peak {
			peak = -s
		}
	}
	if peak > peakCeiling {
		scale := peakCeiling / peak
		for i := range out.Samples {
			out.Samples[i] *= scale
		}
	}

	return out, nil
}
