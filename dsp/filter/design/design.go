package design

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-filterd/dsp/filter/biquad"
)

const (
	// MinQ and MaxQ bound the resonance. Above MaxQ the pole radius gets
	// close enough to one that float rounding on long buffers is audible.
	MinQ = 0.1
	MaxQ = 20.0

	// DefaultQ is the Butterworth (maximally flat) resonance.
	DefaultQ = 1 / math.Sqrt2

	// MinCutoffHz is the lowest cutoff a modulated filter may reach.
	MinCutoffHz = 10.0

	// NyquistSafetyRatio keeps the cutoff strictly below Nyquist, where
	// tan(pi*f/fs) diverges.
	NyquistSafetyRatio = 0.49
)

// MaxCutoff returns the highest cutoff accepted at sampleRate.
func MaxCutoff(sampleRate float64) float64 {
	return sampleRate * NyquistSafetyRatio
}

// ClampCutoff limits freq to [MinCutoffHz, MaxCutoff(sampleRate)].
// It reports whether the value was changed.
func ClampCutoff(freq, sampleRate float64) (float64, bool) {
	hi := MaxCutoff(sampleRate)
	lo := math.Min(MinCutoffHz, hi)

	switch {
	case freq > hi:
		return hi, true
	case freq < lo:
		return lo, true
	default:
		return freq, false
	}
}

// ClampQ limits q to [MinQ, MaxQ]. It reports whether the value was changed.
func ClampQ(q float64) (float64, bool) {
	switch {
	case q > MaxQ:
		return MaxQ, true
	case q < MinQ:
		return MinQ, true
	default:
		return q, false
	}
}

// Design returns coefficients for t at freq (Hz) with quality factor q.
// freq and q are expected to be clamped already; out-of-range values
// produce an error rather than unstable coefficients.
func Design(t Type, freq, q, sampleRate float64) (biquad.Coefficients, error) {
	if _, ok := normalizedW0(freq, sampleRate); !ok {
		return biquad.Coefficients{}, fmt.Errorf("cutoff must be in (0, %f) at sample rate %f: %f", sampleRate/2, sampleRate, freq)
	}

	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return biquad.Coefficients{}, fmt.Errorf("q must be > 0 and finite: %f", q)
	}

	switch t {
	case TypeLowpass:
		return Lowpass(freq, q, sampleRate), nil
	case TypeHighpass:
		return Highpass(freq, q, sampleRate), nil
	case TypeBandpass:
		return Bandpass(freq, q, sampleRate), nil
	default:
		return biquad.Coefficients{}, fmt.Errorf("unsupported filter type: %v", t)
	}
}

// Lowpass designs a lowpass biquad at freq (Hz) with quality factor q.
// DC gain is exactly one.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b1 := 1 - cw
	b0 := b1 / 2
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// Highpass designs a highpass biquad at freq (Hz) with quality factor q.
// Gain at Nyquist is exactly one.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := (1 + cw) / 2
	b1 := -(1 + cw)
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// Bandpass designs a constant 0 dB peak gain bandpass centered at freq (Hz).
// q sets the bandwidth; unlike the constant-skirt form the passband level
// does not grow with q, which keeps resonant settings inside [-1, 1].
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return DefaultQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
