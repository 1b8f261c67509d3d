package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Envelope is a linear ADSR amplitude envelope. Segment lengths are in
// seconds. The release segment occupies the tail of the buffer and ends at
// exactly zero when it spans two or more samples. A non-empty attack starts
// at exactly zero.
type Envelope struct {
	AttackSec    float64
	DecaySec     float64
	SustainLevel float64
	ReleaseSec   float64
}

// DefaultEnvelope returns the envelope used for one-shot synthesis of
// durationSec: attack and decay of min(0.1 s, 10%), release of
// min(0.2 s, 20%) and a sustain level of 0.7.
func DefaultEnvelope(durationSec float64) Envelope {
	return Envelope{
		AttackSec:    math.Min(0.1, durationSec*0.1),
		DecaySec:     math.Min(0.1, durationSec*0.1),
		SustainLevel: 0.7,
		ReleaseSec:   math.Min(0.2, durationSec*0.2),
	}
}

// Validate checks that all segment lengths are >= 0 and finite and that the
// sustain level lies in [0, 1].
func (e Envelope) Validate() error {
	for _, seg := range []struct {
		name string
		v    float64
	}{
		{"attack", e.AttackSec},
		{"decay", e.DecaySec},
		{"release", e.ReleaseSec},
	} {
		if seg.v < 0 || math.IsNaN(seg.v) || math.IsInf(seg.v, 0) {
			return fmt.Errorf("envelope %s must be >= 0 and finite: %f", seg.name, seg.v)
		}
	}

	if e.SustainLevel < 0 || e.SustainLevel > 1 || math.IsNaN(e.SustainLevel) {
		return fmt.Errorf("envelope sustain level must be in [0, 1]: %f", e.SustainLevel)
	}

	return nil
}

// Gains renders the envelope for n samples at sampleRate. Attack and decay
// run from the start of the buffer and release from its end; where they
// overlap the gains multiply, so short buffers still start and end silent.
func (e Envelope) Gains(n int, sampleRate float64) []float64 {
	out := make([]float64, n)

	attack := int(e.AttackSec * sampleRate)
	decay := int(e.DecaySec * sampleRate)
	release := int(e.ReleaseSec * sampleRate)
	releaseStart := n - release

	for i := range out {
		var g float64
		switch {
		case i < attack:
			g = lerp(0, 1, i, attack)
		case i < attack+decay:
			g = lerp(1, e.SustainLevel, i-attack, decay)
		default:
			g = e.SustainLevel
		}

		if i >= releaseStart {
			g *= lerp(1, 0, i-releaseStart, release)
		}

		out[i] = g
	}

	return out
}

// Apply multiplies data in place by the envelope.
func (e Envelope) Apply(data []float64, sampleRate float64) {
	vecmath.MulBlockInPlace(data, e.Gains(len(data), sampleRate))
}

// lerp returns step k of a count-point linear ramp from start to end with
// both endpoints included.
func lerp(start, end float64, k, count int) float64 {
	if count <= 1 {
		return start
	}
	return start + (end-start)*float64(k)/float64(count-1)
}
