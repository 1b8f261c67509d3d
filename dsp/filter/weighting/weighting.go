package weighting

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/cwbudde/algo-filterd/dsp/filter/biquad"
	"github.com/cwbudde/algo-filterd/dsp/filter/design"
)

// IEC 61672 analog prototype pole frequencies (Hz).
const (
	f1 = 20.598997 // double pole for A and C
	f2 = 107.65265 // single pole for A
	f4 = 737.86223 // single pole for A
	f5 = 12194.217 // double pole for A and C
)

// referenceHz is where every curve is normalized to 0 dB.
const referenceHz = 1000.0

// Type identifies a frequency weighting curve.
type Type int

const (
	// TypeZ applies no weighting.
	TypeZ Type = iota

	// TypeA approximates the 40-phon equal-loudness contour.
	TypeA

	// TypeC approximates the 100-phon contour and is nearly flat across
	// the audio band.
	TypeC
)

func (t Type) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeC:
		return "C"
	case TypeZ:
		return "Z"
	default:
		return "unknown"
	}
}

// ParseType accepts "a", "c", "z" (any case). The empty string selects Z.
func ParseType(name string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "Z", "NONE":
		return TypeZ, nil
	case "A":
		return TypeA, nil
	case "C":
		return TypeC, nil
	default:
		return 0, fmt.Errorf("unsupported weighting: %q (want A, C or Z)", name)
	}
}

// New returns a cascade realizing curve t at sampleRate, normalized to 0 dB
// at 1 kHz. When f5 lies above design.MaxCutoff(sampleRate) the
// high-frequency poles are left out.
func New(t Type, sampleRate float64) (*biquad.Chain, error) {
	if !(sampleRate > 2*referenceHz) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("weighting: sample rate must be > %g and finite: %f", 2*referenceHz, sampleRate)
	}

	var coeffs []biquad.Coefficients
	switch t {
	case TypeZ:
		return biquad.NewChain([]biquad.Coefficients{{B0: 1}}), nil
	case TypeA:
		coeffs = []biquad.Coefficients{
			hpSecondOrder(f1, sampleRate),
			hpFirstOrder(f2, sampleRate),
			hpFirstOrder(f4, sampleRate),
		}
	case TypeC:
		coeffs = []biquad.Coefficients{
			hpSecondOrder(f1, sampleRate),
		}
	default:
		return nil, fmt.Errorf("weighting: unknown type %d", t)
	}

	if f5 < design.MaxCutoff(sampleRate) {
		lp := lpFirstOrder(f5, sampleRate)
		coeffs = append(coeffs, lp, lp)
	}

	// Fold the reference gain into the first section.
	g := normalizationGain(coeffs, sampleRate)
	coeffs[0].B0 *= g
	coeffs[0].B1 *= g
	coeffs[0].B2 *= g

	return biquad.NewChain(coeffs), nil
}

// Apply filters a copy of x through curve t.
func Apply(t Type, x []float64, sampleRate float64) ([]float64, error) {
	chain, err := New(t, sampleRate)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	copy(out, x)
	chain.ProcessBlock(out)
	return out, nil
}

// lpFirstOrder is the bilinear transform of w/(s+w) with K = tan(pi*f/sr):
//
//	B0 = B1 = K/(1+K), A1 = (K-1)/(K+1)
func lpFirstOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	d := 1 + k

	return biquad.Coefficients{
		B0: k / d,
		B1: k / d,
		A1: (k - 1) / d,
	}
}

// hpSecondOrder is the bilinear transform of s^2/(s+w)^2.
func hpSecondOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	k2 := k * k
	d := 1 + 2*k + k2

	return biquad.Coefficients{
		B0: 1 / d,
		B1: -2 / d,
		B2: 1 / d,
		A1: 2 * (k2 - 1) / d,
		A2: (1 - 2*k + k2) / d,
	}
}

// hpFirstOrder is the bilinear transform of s/(s+w).
func hpFirstOrder(f, sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * f / sr)
	d := 1 + k

	return biquad.Coefficients{
		B0: 1 / d,
		B1: -1 / d,
		A1: (k - 1) / d,
	}
}

func normalizationGain(coeffs []biquad.Coefficients, sr float64) float64 {
	h := complex(1, 0)
	for i := range coeffs {
		h *= coeffs[i].Response(referenceHz, sr)
	}

	return 1 / cmplx.Abs(h)
}
