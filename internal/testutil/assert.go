package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t at the first index where got and want
// differ by more than eps, or when their lengths differ.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i, g := range got {
		if d := math.Abs(g - want[i]); !(d <= eps) {
			t.Fatalf("index %d: got %v, want %v (|diff| %g > %g)", i, g, want[i], d, eps)
		}
	}
}

// RequireFinite fails t on the first NaN or Inf sample.
func RequireFinite(t testing.TB, x []float64) {
	t.Helper()
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite sample %v", i, v)
		}
	}
}

// RequireUnitRange fails t unless every sample is finite and within [-1, 1],
// the range every engine output must respect.
func RequireUnitRange(t testing.TB, x []float64) {
	t.Helper()
	for i, v := range x {
		if !(v >= -1 && v <= 1) {
			t.Fatalf("index %d: sample %v outside [-1, 1]", i, v)
		}
	}
}

// MaxAbsDiff is the largest |a[i]-b[i]|. Slices of different length are
// infinitely far apart.
func MaxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var worst float64
	for i := range a {
		worst = math.Max(worst, math.Abs(a[i]-b[i]))
	}
	return worst
}

// SteadyStateGain is SettledRMS(out)/SettledRMS(in) with the first skip
// samples of filter transient ignored. It is 0 for a silent input tail or
// mismatched lengths.
func SteadyStateGain(in, out []float64, skip int) float64 {
	if len(in) != len(out) {
		return 0
	}
	rin := SettledRMS(in, skip)
	if rin == 0 {
		return 0
	}
	return SettledRMS(out, skip) / rin
}
