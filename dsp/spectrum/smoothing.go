package spectrum

import (
	"fmt"
	"math"
)

// SmoothFractionalOctave replaces every value by the arithmetic mean of the
// values whose frequency lies within 1/fraction of an octave around it.
// Use it on linear magnitudes or powers, not on dB.
//
// freqHz must be strictly increasing and positive, and as long as values.
func SmoothFractionalOctave(freqHz, values []float64, fraction int) ([]float64, error) {
	if len(freqHz) == 0 || len(values) == 0 {
		return nil, fmt.Errorf("fractional-octave smoothing requires non-empty inputs")
	}
	if len(freqHz) != len(values) {
		return nil, fmt.Errorf("fractional-octave input length mismatch: %d != %d", len(freqHz), len(values))
	}
	if fraction <= 0 {
		return nil, fmt.Errorf("fractional-octave fraction must be > 0: %d", fraction)
	}
	for i, f := range freqHz {
		if !(f > 0) {
			return nil, fmt.Errorf("fractional-octave frequencies must be > 0 at index %d", i)
		}
		if i > 0 && !(f > freqHz[i-1]) {
			return nil, fmt.Errorf("fractional-octave frequencies must be strictly increasing at index %d", i)
		}
	}

	// prefix[k] is the sum of values[:k].
	prefix := make([]float64, len(values)+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}

	halfBand := math.Pow(2, 1/(2*float64(fraction)))
	out := make([]float64, len(values))

	// Band edges only move up as f grows.
	lo, hi := 0, 0
	for i, f := range freqHz {
		fLo, fHi := f/halfBand, f*halfBand
		for lo < len(freqHz) && freqHz[lo] < fLo {
			lo++
		}
		for hi < len(freqHz) && freqHz[hi] <= fHi {
			hi++
		}
		out[i] = (prefix[hi] - prefix[lo]) / float64(hi-lo)
	}

	return out, nil
}
