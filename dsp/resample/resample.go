package resample

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidRate indicates a non-positive or non-finite sample rate.
var ErrInvalidRate = errors.New("resample: invalid sample rate")

// Quality selects the anti-aliasing filter length.
type Quality int

const (
	// QualityFast trades stopband attenuation for speed.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest gives the flattest passband and deepest stopband.
	QualityBest
)

// Profile holds the filter parameters of a quality mode.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the parameters used by q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBest:
		return "best"
	default:
		return "balanced"
	}
}

// ParseQuality accepts fast, balanced or best. The empty string selects
// balanced.
func ParseQuality(name string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "balanced":
		return QualityBalanced, nil
	case "fast":
		return QualityFast, nil
	case "best":
		return QualityBest, nil
	default:
		return 0, fmt.Errorf("resample: unknown quality %q", name)
	}
}

// maxDenominator bounds the rational approximation of the rate ratio.
const maxDenominator = 4096

// cancelCheckInterval is how many output samples pass between context checks.
const cancelCheckInterval = 4096

// Converter performs one-shot rational sample-rate conversion with a
// windowed-sinc polyphase FIR. The filter delay is compensated, so output
// sample m lines up with input time m*inRate/outRate.
type Converter struct {
	up, down int
	quality  Quality
	taps     []float64
	delay    int // in upsampled samples
}

// New designs a converter from inRate to outRate.
func New(inRate, outRate float64, q Quality) (*Converter, error) {
	if !(inRate > 0) || !(outRate > 0) || math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, fmt.Errorf("%w: %v -> %v", ErrInvalidRate, inRate, outRate)
	}

	up, down := approximateRatio(outRate/inRate, maxDenominator)
	c := &Converter{up: up, down: down, quality: q}
	if up == down {
		return c, nil
	}

	taps, err := designPrototype(up, down, QualityProfile(q))
	if err != nil {
		return nil, err
	}
	c.taps = taps
	c.delay = (len(taps) - 1) / 2
	return c, nil
}

// Ratio returns the reduced up/down factors.
func (c *Converter) Ratio() (up, down int) {
	return c.up, c.down
}

// Quality returns the configured quality mode.
func (c *Converter) Quality() Quality {
	return c.quality
}

// OutputLen returns the number of samples Convert produces for n inputs.
func (c *Converter) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}
	return int((int64(n)*int64(c.up) + int64(c.down) - 1) / int64(c.down))
}

// Convert resamples x. The input is not modified.
func (c *Converter) Convert(ctx context.Context, x []float64) ([]float64, error) {
	out := make([]float64, c.OutputLen(len(x)))
	if c.up == c.down {
		copy(out, x)
		return out, nil
	}

	nTaps := len(c.taps)
	for m := range out {
		if m%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		// Position in the zero-stuffed stream, shifted by the filter delay.
		t := m*c.down + c.delay

		lo := 0
		if t >= nTaps {
			lo = (t - nTaps + c.up) / c.up
		}
		hi := min(t/c.up, len(x)-1)

		var y float64
		for i := lo; i <= hi; i++ {
			y += c.taps[t-i*c.up] * x[i]
		}
		out[m] = y
	}
	return out, nil
}

// Convert is a one-shot helper around New and Converter.Convert.
func Convert(ctx context.Context, x []float64, inRate, outRate float64, q Quality) ([]float64, error) {
	c, err := New(inRate, outRate, q)
	if err != nil {
		return nil, err
	}
	return c.Convert(ctx, x)
}
