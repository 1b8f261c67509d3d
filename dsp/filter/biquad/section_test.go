package biquad

import (
	"math"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func passthrough() Coefficients {
	return Coefficients{B0: 1}
}

// smoothing is a gentle two-pole lowpass with real poles at 0.1 and 0.4.
func smoothing() Coefficients {
	return Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.5, A2: 0.04}
}

// directForm is y[n] = sum b_k x[n-k] - sum a_k y[n-k], the textbook
// difference equation the transposed structure must reproduce.
func directForm(c Coefficients, x []float64) []float64 {
	y := make([]float64, len(x))
	at := func(s []float64, i int) float64 {
		if i < 0 {
			return 0
		}
		return s[i]
	}
	for n := range x {
		y[n] = c.B0*x[n] + c.B1*at(x, n-1) + c.B2*at(x, n-2) - c.A1*at(y, n-1) - c.A2*at(y, n-2)
	}
	return y
}

func TestSectionMatchesDifferenceEquation(t *testing.T) {
	x := []float64{1, -0.5, 0.25, 0.8, 0, 0, -1, 0.3, 0.6, -0.2, 0, 0.9}
	for _, c := range append(twoSectionCoeffs(), smoothing(), passthrough(), Coefficients{B1: 1}) {
		want := directForm(c, x)
		s := NewSection(c)
		for n, v := range x {
			if got := s.ProcessSample(v); !almostEqual(got, want[n], eps) {
				t.Fatalf("%+v sample %d: got %v, want %v", c, n, got, want[n])
			}
		}
	}
}

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	x := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8, -0.1}

	ref := NewSection(smoothing())
	want := make([]float64, len(x))
	for i, v := range x {
		want[i] = ref.ProcessSample(v)
	}

	s := NewSection(smoothing())
	got := append([]float64(nil), x...)
	s.ProcessBlock(got[:4])
	s.ProcessBlock(got[4:])

	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("sample %d: block=%v sample=%v", i, got[i], want[i])
		}
	}
	if s.State() != ref.State() {
		t.Fatalf("state: block=%v sample=%v", s.State(), ref.State())
	}
}

func TestStepSettlesToDCGain(t *testing.T) {
	c := smoothing()
	dc := (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
	s := NewSection(c)
	var y float64
	for range 200 {
		y = s.ProcessSample(1)
	}
	if !almostEqual(y, dc, 1e-9) {
		t.Fatalf("step settled at %v, want %v", y, dc)
	}
}

func TestDecayFlushesToExactZero(t *testing.T) {
	s := NewSection(smoothing())
	s.ProcessSample(1)
	for range 2000 {
		s.ProcessSample(0)
	}
	if st := s.State(); st != [2]float64{} {
		t.Fatalf("state after decay = %v, want exact zeros", st)
	}
	if y := s.ProcessSample(0); y != 0 {
		t.Fatalf("output after decay = %v", y)
	}
}

func TestResetAndRestore(t *testing.T) {
	s := NewSection(smoothing())
	s.ProcessSample(1)
	s.ProcessSample(0.5)
	saved := s.State()
	if saved == [2]float64{} {
		t.Fatal("state should be non-zero after processing")
	}

	y1 := s.ProcessSample(-0.3)
	s.Reset()
	if s.State() != [2]float64{} {
		t.Fatalf("state after Reset = %v", s.State())
	}
	s.SetState(saved)
	if y2 := s.ProcessSample(-0.3); y1 != y2 {
		t.Fatalf("after restore got %v, want %v", y2, y1)
	}
}

func TestZeroSectionIsSilent(t *testing.T) {
	var s Section
	buf := []float64{1, 2, 3}
	s.ProcessBlock(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}
