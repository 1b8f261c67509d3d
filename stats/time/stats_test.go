package time

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-filterd/internal/testutil"
)

func TestMeasureEmpty(t *testing.T) {
	l := Measure(nil)
	if l != (Level{}) {
		t.Fatalf("Measure(nil) = %+v, want zero", l)
	}
	if !math.IsInf(l.RMSdB(), -1) || !math.IsInf(l.PeakdB(), -1) {
		t.Fatalf("dB of silence: rms %v peak %v, want -Inf", l.RMSdB(), l.PeakdB())
	}
}

func TestMeasureSine(t *testing.T) {
	// 1 kHz at 48 kHz: 100 whole periods.
	x := testutil.DeterministicSine(1000, 48000, 0.5, 4800)
	l := Measure(x)

	if l.Samples != 4800 || l.FullScale != 0 {
		t.Fatalf("Samples=%d FullScale=%d", l.Samples, l.FullScale)
	}
	if math.Abs(l.RMS-0.5/math.Sqrt2) > 1e-9 {
		t.Fatalf("RMS=%v, want %v", l.RMS, 0.5/math.Sqrt2)
	}
	if math.Abs(l.Peak-0.5) > 1e-9 || l.PeakIndex != 12 {
		t.Fatalf("Peak=%v at %d, want 0.5 at 12", l.Peak, l.PeakIndex)
	}
	if math.Abs(l.Crest-math.Sqrt2) > 1e-6 {
		t.Fatalf("Crest=%v, want sqrt2", l.Crest)
	}
	if math.Abs(l.DC) > 1e-12 {
		t.Fatalf("DC=%v, want 0", l.DC)
	}
	if math.Abs(l.PeakdB()+6.0206) > 1e-3 {
		t.Fatalf("PeakdB=%v", l.PeakdB())
	}
	// Two crossings per period, minus the one at n=0 which starts at zero.
	if l.ZeroCrossings < 195 || l.ZeroCrossings > 200 {
		t.Fatalf("ZeroCrossings=%d, want about 199", l.ZeroCrossings)
	}
}

func TestMeasureClippedBuffer(t *testing.T) {
	l := Measure([]float64{0.1, -1, 0.5, 1, -0.2, 0, 0.3})
	if l.Peak != 1 || l.PeakIndex != 1 {
		t.Fatalf("Peak=%v at %d, want 1 at 1", l.Peak, l.PeakIndex)
	}
	if l.FullScale != 2 {
		t.Fatalf("FullScale=%d, want 2", l.FullScale)
	}
	// 0 between -0.2 and 0.3 is not a crossing.
	if l.ZeroCrossings != 3 {
		t.Fatalf("ZeroCrossings=%d, want 3", l.ZeroCrossings)
	}
}

func TestHelpers(t *testing.T) {
	x := []float64{1, -1, 1, -1}
	if got := RMS(x); got != 1 {
		t.Fatalf("RMS=%v, want 1", got)
	}
	if got := DC(x); got != 0 {
		t.Fatalf("DC=%v, want 0", got)
	}
	if got := Peak([]float64{0.2, -0.7, 0.3}); got != 0.7 {
		t.Fatalf("Peak=%v, want 0.7", got)
	}
	if got := DB(-0.1); math.Abs(got+20) > 1e-12 {
		t.Fatalf("DB(-0.1)=%v, want -20", got)
	}
	if RMS(nil) != 0 || DC(nil) != 0 || Peak(nil) != 0 || ZeroCrossings(nil) != 0 {
		t.Fatal("expected zero results for empty input")
	}
}

func TestDCCompensated(t *testing.T) {
	if got := DC(testutil.DC(0.1, 1_000_000)); math.Abs(got-0.1) > 1e-15 {
		t.Fatalf("DC=%v, want 0.1", got)
	}
	// A large offset followed by small values still averages exactly.
	x := append([]float64{1e16}, testutil.DC(1, 1000)...)
	x = append(x, -1e16)
	if got := DC(x); got != 1000.0/1002.0 {
		t.Fatalf("DC=%v, want %v", got, 1000.0/1002.0)
	}
}
