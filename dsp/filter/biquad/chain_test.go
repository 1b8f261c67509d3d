package biquad

import "testing"

// twoSectionCoeffs are two stable, distinct lowpass-shaped sections.
func twoSectionCoeffs() []Coefficients {
	return []Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	}
}

func TestNewCascade(t *testing.T) {
	k := twoSectionCoeffs()[0]
	for stages, want := range map[int]int{-2: 1, 0: 1, 1: 1, 4: 4} {
		c := NewCascade(k, stages)
		if c.NumSections() != want {
			t.Fatalf("NewCascade(%d) has %d sections, want %d", stages, c.NumSections(), want)
		}
		for i, got := range c.Coefficients() {
			if got != k {
				t.Fatalf("stages=%d section %d = %+v", stages, i, got)
			}
		}
	}
}

func TestChainIsSeriesConnection(t *testing.T) {
	coeffs := twoSectionCoeffs()
	first, second := NewSection(coeffs[0]), NewSection(coeffs[1])
	chain := NewChain(coeffs)
	block := NewChain(coeffs)

	x := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}
	buf := append([]float64(nil), x...)
	block.ProcessBlock(buf)

	for i, v := range x {
		want := second.ProcessSample(first.ProcessSample(v))
		if got := chain.ProcessSample(v); !almostEqual(got, want, eps) {
			t.Fatalf("sample %d: chain=%v, series=%v", i, got, want)
		}
		if !almostEqual(buf[i], want, eps) {
			t.Fatalf("sample %d: block=%v, series=%v", i, buf[i], want)
		}
	}
}

func TestSetCoefficientsKeepsDelayLines(t *testing.T) {
	coeffs := twoSectionCoeffs()
	c := NewCascade(coeffs[0], 2)
	ref := NewCascade(coeffs[0], 2)
	for _, x := range []float64{1, 0.5, -0.25} {
		c.ProcessSample(x)
		ref.ProcessSample(x)
	}

	c.SetCoefficients(coeffs[1])
	for i := range ref.sections {
		ref.sections[i].Coefficients = coeffs[1]
	}
	for n := range 8 {
		if got, want := c.ProcessSample(0), ref.ProcessSample(0); got != want {
			t.Fatalf("sample %d after retune: %v, want %v", n, got, want)
		}
	}
}

func TestChainReset(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	y1 := c.ProcessSample(1)
	c.ProcessSample(0.25)

	c.Reset()
	if y2 := c.ProcessSample(1); y2 != y1 {
		t.Fatalf("first output after Reset = %v, want %v", y2, y1)
	}
}
