// Package modulation provides low-frequency oscillators that drive
// per-sample parameter modulation such as filter cutoff sweeps, tremolo and
// vibrato.
package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-filterd/dsp/signal"
)

const (
	defaultLFORateHz = 2.0
	defaultLFODepth  = 0.5

	// MaxLFORateHz is the highest accepted modulation rate.
	MaxLFORateHz = 100.0
)

// LFOOption mutates LFO construction parameters.
type LFOOption func(*lfoConfig) error

type lfoConfig struct {
	waveform signal.Waveform
	rateHz   float64
	depth    float64
	phase    float64
}

func defaultLFOConfig() lfoConfig {
	return lfoConfig{
		waveform: signal.Sine,
		rateHz:   defaultLFORateHz,
		depth:    defaultLFODepth,
	}
}

// WithLFOWaveform sets the modulation shape.
func WithLFOWaveform(w signal.Waveform) LFOOption {
	return func(cfg *lfoConfig) error {
		if _, err := signal.ParseWaveform(w.String()); err != nil {
			return fmt.Errorf("lfo waveform: %w", err)
		}
		cfg.waveform = w
		return nil
	}
}

// WithLFORateHz sets modulation speed in Hz, in (0, MaxLFORateHz].
func WithLFORateHz(rateHz float64) LFOOption {
	return func(cfg *lfoConfig) error {
		if rateHz <= 0 || rateHz > MaxLFORateHz || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("lfo rate must be in (0, %g]: %f", MaxLFORateHz, rateHz)
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithLFODepth sets modulation depth in [0, 1].
func WithLFODepth(depth float64) LFOOption {
	return func(cfg *lfoConfig) error {
		if depth < 0 || depth > 1 || math.IsNaN(depth) || math.IsInf(depth, 0) {
			return fmt.Errorf("lfo depth must be in [0, 1]: %f", depth)
		}
		cfg.depth = depth
		return nil
	}
}

// WithLFOPhase sets the starting phase in cycles. Values are wrapped to [0, 1).
func WithLFOPhase(phase float64) LFOOption {
	return func(cfg *lfoConfig) error {
		if math.IsNaN(phase) || math.IsInf(phase, 0) {
			return fmt.Errorf("lfo phase must be finite: %f", phase)
		}
		cfg.phase = phase
		return nil
	}
}

// LFO is a low-frequency oscillator. Each call to Next advances it by one
// sample. The zero phase of every shape matches [signal.Shape], so a sine LFO
// starts at zero and rises.
//
// An LFO is not safe for concurrent use.
type LFO struct {
	osc    *signal.Oscillator
	rateHz float64
	depth  float64
}

// NewLFO creates an LFO with practical defaults and optional overrides.
func NewLFO(sampleRate float64, opts ...LFOOption) (*LFO, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lfo sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultLFOConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	osc, err := signal.NewOscillator(cfg.waveform, sampleRate)
	if err != nil {
		return nil, err
	}
	osc.SetPhase(cfg.phase)

	return &LFO{osc: osc, rateHz: cfg.rateHz, depth: cfg.depth}, nil
}

// Waveform returns the modulation shape.
func (l *LFO) Waveform() signal.Waveform { return l.osc.Waveform() }

// RateHz returns the modulation speed.
func (l *LFO) RateHz() float64 { return l.rateHz }

// Depth returns the modulation depth.
func (l *LFO) Depth() float64 { return l.depth }

// Phase returns the current phase in [0, 1).
func (l *LFO) Phase() float64 { return l.osc.Phase() }

// Reset rewinds the LFO to phase zero.
func (l *LFO) Reset() { l.osc.Reset() }

// Next returns the raw waveform value in [-1, 1] and advances one sample.
func (l *LFO) Next() float64 {
	return l.osc.Next(l.rateHz)
}

// NextFactor returns the multiplicative modulation 1 + depth*lfo and
// advances one sample. The result lies in [1-depth, 1+depth].
func (l *LFO) NextFactor() float64 {
	return 1 + l.depth*l.Next()
}

// Fill writes len(dst) modulation factors (see NextFactor).
func (l *LFO) Fill(dst []float64) {
	for i := range dst {
		dst[i] = l.NextFactor()
	}
}
