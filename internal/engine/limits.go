package engine

import (
	"fmt"

	"github.com/cwbudde/algo-filterd/dsp/core"
)

const (
	// DefaultMaxDurationSec bounds synthesized durations; longer requests
	// are clamped.
	DefaultMaxDurationSec = 30.0

	// DefaultMaxSamples bounds every buffer the engine accepts or produces.
	DefaultMaxSamples = 30 * 44100

	// DefaultMaxStages bounds the number of cascaded biquad sections.
	DefaultMaxStages = 4

	// DefaultFFTSize is the analysis frame length when none is requested.
	DefaultFFTSize = 2048
	MinFFTSize     = 256
	MaxFFTSize     = 65536

	// MaxSmoothingFraction is the finest 1/N-octave smoothing Analyze
	// accepts.
	MaxSmoothingFraction = 24

	// DefaultResponsePoints is the curve resolution of FilterResponse.
	DefaultResponsePoints = 256
	MaxResponsePoints     = 4096

	// cancelCheckInterval is the number of samples between context checks.
	cancelCheckInterval = 4096
)

// Limits are the tunable resource bounds of a Service.
type Limits struct {
	MaxSamples     int
	MaxDurationSec float64
	MaxStages      int

	// CoefficientInterval is the number of samples between coefficient
	// recomputations under cutoff modulation. One is exact.
	CoefficientInterval int
}

// DefaultLimits returns the production limits.
func DefaultLimits() Limits {
	return Limits{
		MaxSamples:          DefaultMaxSamples,
		MaxDurationSec:      DefaultMaxDurationSec,
		MaxStages:           DefaultMaxStages,
		CoefficientInterval: 1,
	}
}

// Validate checks that every limit is usable.
func (l Limits) Validate() error {
	switch {
	case l.MaxSamples <= 0:
		return fmt.Errorf("max samples must be > 0: %d", l.MaxSamples)
	case !(l.MaxDurationSec > 0) || !core.IsFinite(l.MaxDurationSec):
		return fmt.Errorf("max duration must be > 0 and finite: %f", l.MaxDurationSec)
	case l.MaxStages <= 0:
		return fmt.Errorf("max stages must be > 0: %d", l.MaxStages)
	case l.CoefficientInterval <= 0:
		return fmt.Errorf("coefficient interval must be > 0: %d", l.CoefficientInterval)
	}
	return nil
}
