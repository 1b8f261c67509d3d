package window

import (
	"errors"
	"math"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"", TypeHann},
		{"Hann", TypeHann},
		{"hanning", TypeHann},
		{"rect", TypeRectangular},
		{"hamming", TypeHamming},
		{"blackman", TypeBlackman},
		{"flattop", TypeFlatTop},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if err != nil {
			t.Fatalf("ParseType(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseType(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseType("kaiser"); err == nil {
		t.Fatal("expected error for unsupported window")
	}
}

func TestGoldenVectors(t *testing.T) {
	tests := []struct {
		typ  Type
		want []float64
	}{
		{TypeRectangular, []float64{1, 1, 1, 1, 1}},
		{TypeHann, []float64{0, 0.5, 1, 0.5, 0}},
		{TypeHamming, []float64{0.08, 0.54, 1, 0.54, 0.08}},
		{TypeBlackman, []float64{0, 0.34, 1, 0.34, 0}},
	}

	for _, tt := range tests {
		got := Generate(tt.typ, 5)
		checkGolden(t, got, tt.want, 1e-12)
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	sym := Generate(TypeHann, 8)
	per := Generate(TypeHann, 8, WithPeriodic())

	if math.Abs(sym[7]) > 1e-12 {
		t.Fatalf("symmetric last coefficient=%v, want 0", sym[7])
	}
	if math.Abs(per[4]-1) > 1e-12 {
		t.Fatalf("periodic centre=%v, want 1", per[4])
	}
	if per[7] == sym[7] {
		t.Fatal("expected periodic and symmetric forms to differ")
	}
}

func TestGenerateInvalid(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("expected nil for zero length")
	}
	if Generate(Type(99), 8) != nil {
		t.Fatal("expected nil for unknown type")
	}
	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 0 {
		t.Fatalf("single-point Hann=%v", w)
	}
}

func TestENBWAndCoherentGain(t *testing.T) {
	gains := map[Type]float64{
		TypeRectangular: 1,
		TypeHann:        0.5,
		TypeHamming:     0.54,
		TypeBlackman:    0.42,
		TypeFlatTop:     0.2156,
	}
	for typ, gain := range gains {
		w := Generate(typ, 4096, WithPeriodic())

		enbw, err := EquivalentNoiseBandwidth(w)
		if err != nil {
			t.Fatalf("%v: ENBW error = %v", typ, err)
		}
		if math.Abs(enbw-typ.NominalENBW()) > 0.01 {
			t.Fatalf("%v: ENBW=%v, want %v", typ, enbw, typ.NominalENBW())
		}
		if cg := CoherentGain(w); math.Abs(cg-gain) > 1e-3 {
			t.Fatalf("%v: coherent gain=%v, want %v", typ, cg, gain)
		}
	}

	if _, err := EquivalentNoiseBandwidth(nil); err == nil {
		t.Fatal("expected error for empty coefficients")
	}
	if _, err := EquivalentNoiseBandwidth([]float64{1, -1}); err == nil {
		t.Fatal("expected error for zero coherent gain")
	}
	if Type(99).NominalENBW() != 0 || Type(99).String() != "Type(99)" {
		t.Fatal("unknown type should have no metadata")
	}
}

func TestMultiply(t *testing.T) {
	frame := []float64{2, 2, 2, 2, 2}
	if err := Multiply(frame, Generate(TypeHann, 5)); err != nil {
		t.Fatal(err)
	}
	checkGolden(t, frame, []float64{0, 1, 2, 1, 0}, 1e-12)

	if err := Multiply(frame, []float64{1}); !errors.Is(err, ErrLength) {
		t.Fatalf("err = %v, want ErrLength", err)
	}
}

func checkGolden(t *testing.T, got, want []float64, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}

	for i := range got {
		if !almostEqual(got[i], want[i], tol) {
			t.Fatalf("index %d: got %.15f want %.15f", i, got[i], want[i])
		}
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
