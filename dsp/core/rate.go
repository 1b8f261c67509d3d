package core

import "math"

const (
	// DefaultSampleRate is used when a request leaves the rate unset.
	DefaultSampleRate = 44100.0

	// MinSampleRate and MaxSampleRate bound the accepted processing rates.
	MinSampleRate = 8000.0
	MaxSampleRate = 192000.0
)

// ProcessorConfig carries the settings shared by rate-dependent processors.
type ProcessorConfig struct {
	SampleRate float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// WithSampleRate sets the rate. Non-positive or non-finite values are ignored.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// ApplyProcessorOptions starts from DefaultSampleRate and applies opts.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := ProcessorConfig{SampleRate: DefaultSampleRate}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Nyquist is half the sample rate.
func (c ProcessorConfig) Nyquist() float64 { return c.SampleRate / 2 }

// SampleCount is SampleCount(durationSec, c.SampleRate).
func (c ProcessorConfig) SampleCount(durationSec float64) int {
	return SampleCount(durationSec, c.SampleRate)
}

// SampleCount converts seconds to samples, rounding half away from zero.
func SampleCount(durationSec, sampleRate float64) int {
	return int(math.Round(durationSec * sampleRate))
}
