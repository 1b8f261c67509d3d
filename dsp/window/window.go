// Package window generates the tapering windows offered by the analysis
// endpoint.
package window

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// ErrLength is returned when a frame and its window differ in length.
var ErrLength = errors.New("window: frame and coefficients differ in length")

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeFlatTop
)

// shape is a generalized cosine window sum_k terms[k]*cos(2*pi*k*x), with
// its tabulated equivalent noise bandwidth in bins.
type shape struct {
	name  string
	terms []float64
	enbw  float64
}

var shapes = map[Type]shape{
	TypeRectangular: {"rectangular", []float64{1}, 1},
	TypeHann:        {"hann", []float64{0.5, -0.5}, 1.5},
	TypeHamming:     {"hamming", []float64{0.54, -0.46}, 1.363},
	TypeBlackman:    {"blackman", []float64{0.42, -0.5, 0.08}, 1.727},
	TypeFlatTop:     {"flattop", []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}, 3.770},
}

// ParseType converts a case-insensitive window name into a Type.
// An empty name selects Hann.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "hann", "hanning":
		return TypeHann, nil
	case "rectangular", "rect", "none":
		return TypeRectangular, nil
	case "hamming":
		return TypeHamming, nil
	case "blackman":
		return TypeBlackman, nil
	case "flattop", "flat_top":
		return TypeFlatTop, nil
	}
	return 0, fmt.Errorf("unsupported window: %q", name)
}

func (t Type) String() string {
	if s, ok := shapes[t]; ok {
		return s.name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// NominalENBW is the tabulated equivalent noise bandwidth of t in bins, or 0
// for an unknown type.
func (t Type) NominalENBW() float64 {
	return shapes[t].enbw
}

// Option configures Generate.
type Option func(*options)

type options struct {
	periodic bool
}

// WithPeriodic samples the window over n points of an n-periodic cycle, the
// form used for FFT frames. The default is the symmetric form.
func WithPeriodic() Option {
	return func(o *options) { o.periodic = true }
}

// Generate returns n window coefficients. Unknown types and non-positive
// lengths yield nil.
func Generate(t Type, n int, opts ...Option) []float64 {
	s, ok := shapes[t]
	if !ok || n <= 0 {
		return nil
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	span := float64(n - 1)
	if o.periodic {
		span = float64(n)
	}

	out := make([]float64, n)
	for i := range out {
		var x float64
		if span > 0 {
			x = 2 * math.Pi * float64(i) / span
		}
		for k, c := range s.terms {
			out[i] += c * math.Cos(float64(k)*x)
		}
	}
	return out
}

// Multiply tapers frame in place with coeffs.
func Multiply(frame, coeffs []float64) error {
	if len(frame) != len(coeffs) {
		return ErrLength
	}
	vecmath.MulBlockInPlace(frame, coeffs)
	return nil
}

// CoherentGain is the mean coefficient: the amplitude a window leaves on a
// bin-centred tone.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	return vecmath.Sum(coeffs) / float64(len(coeffs))
}

// EquivalentNoiseBandwidth measures the ENBW of coeffs in bins.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	sum := vecmath.Sum(coeffs)
	if len(coeffs) == 0 || sum == 0 {
		return 0, errors.New("window: ENBW needs coefficients with a non-zero sum")
	}
	return float64(len(coeffs)) * vecmath.DotProduct(coeffs, coeffs) / (sum * sum), nil
}
