package signal

import (
	"fmt"
	"math"
)

// Oscillator is a phase-accumulating waveform source. The phase advances
// by freq/sampleRate per sample and is kept in [0, 1), so the frequency
// may change on every sample without discontinuities.
//
// An Oscillator is not safe for concurrent use.
type Oscillator struct {
	waveform   Waveform
	sampleRate float64
	phase      float64
}

// NewOscillator creates an oscillator starting at phase zero.
func NewOscillator(w Waveform, sampleRate float64) (*Oscillator, error) {
	if !w.valid() {
		return nil, fmt.Errorf("unsupported waveform: %v", w)
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("oscillator sample rate must be > 0 and finite: %f", sampleRate)
	}

	return &Oscillator{waveform: w, sampleRate: sampleRate}, nil
}

// Waveform returns the oscillator shape.
func (o *Oscillator) Waveform() Waveform { return o.waveform }

// SampleRate returns the sample rate in Hz.
func (o *Oscillator) SampleRate() float64 { return o.sampleRate }

// Phase returns the current normalized phase in [0, 1).
func (o *Oscillator) Phase() float64 { return o.phase }

// SetPhase sets the normalized phase. Values outside [0, 1) are wrapped.
func (o *Oscillator) SetPhase(p float64) {
	o.phase = wrapPhase(p)
}

// Reset returns the phase to zero.
func (o *Oscillator) Reset() { o.phase = 0 }

// Next returns the current sample and advances the phase by freqHz.
// Negative frequencies run the phase backwards.
func (o *Oscillator) Next(freqHz float64) float64 {
	v := Shape(o.waveform, o.phase)
	o.phase = wrapPhase(o.phase + freqHz/o.sampleRate)
	return v
}

// Fill writes len(dst) samples at a constant frequency.
func (o *Oscillator) Fill(dst []float64, freqHz float64) {
	for i := range dst {
		dst[i] = o.Next(freqHz)
	}
}

func wrapPhase(p float64) float64 {
	p -= math.Floor(p)
	if p >= 1 {
		// A tiny negative p rounds to exactly 1 after wrapping.
		p = 0
	}
	return p
}
