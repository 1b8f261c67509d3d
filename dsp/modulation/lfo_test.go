package modulation

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-filterd/dsp/signal"
)

func TestNewLFODefaults(t *testing.T) {
	l, err := NewLFO(44100)
	if err != nil {
		t.Fatalf("NewLFO() error = %v", err)
	}
	if l.Waveform() != signal.Sine || l.RateHz() != defaultLFORateHz || l.Depth() != defaultLFODepth {
		t.Fatalf("unexpected defaults: %v %v %v", l.Waveform(), l.RateHz(), l.Depth())
	}
}

func TestNewLFOValidation(t *testing.T) {
	tests := []struct {
		name string
		sr   float64
		opt  LFOOption
	}{
		{"zero sample rate", 0, nil},
		{"nan sample rate", math.NaN(), nil},
		{"zero rate", 44100, WithLFORateHz(0)},
		{"rate above max", 44100, WithLFORateHz(MaxLFORateHz + 1)},
		{"negative depth", 44100, WithLFODepth(-0.1)},
		{"depth above one", 44100, WithLFODepth(1.1)},
		{"unknown waveform", 44100, WithLFOWaveform(signal.Waveform(77))},
		{"inf phase", 44100, WithLFOPhase(math.Inf(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLFO(tt.sr, tt.opt); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLFOFactorRange(t *testing.T) {
	for _, w := range signal.Waveforms() {
		l, err := NewLFO(1000, WithLFOWaveform(w), WithLFORateHz(7), WithLFODepth(0.3))
		if err != nil {
			t.Fatalf("NewLFO(%v) error = %v", w, err)
		}

		buf := make([]float64, 5000)
		l.Fill(buf)
		for i, v := range buf {
			if v < 0.7-1e-12 || v > 1.3+1e-12 {
				t.Fatalf("%v factor[%d]=%v outside [0.7, 1.3]", w, i, v)
			}
		}
	}
}

func TestLFOPeriod(t *testing.T) {
	const sr = 1000.0
	l, err := NewLFO(sr, WithLFORateHz(4), WithLFODepth(1))
	if err != nil {
		t.Fatalf("NewLFO() error = %v", err)
	}

	// A 4 Hz LFO at 1 kHz repeats every 250 samples.
	vals := make([]float64, 500)
	for i := range vals {
		vals[i] = l.Next()
	}

	if math.Abs(vals[0]) > 1e-12 {
		t.Fatalf("vals[0]=%v, want 0", vals[0])
	}
	for i := 0; i < 250; i++ {
		if math.Abs(vals[i]-vals[i+250]) > 1e-9 {
			t.Fatalf("not periodic at %d: %v vs %v", i, vals[i], vals[i+250])
		}
	}
}

func TestLFOStartPhaseAndReset(t *testing.T) {
	l, err := NewLFO(1000, WithLFOPhase(1.25), WithLFODepth(1))
	if err != nil {
		t.Fatalf("NewLFO() error = %v", err)
	}
	if math.Abs(l.Phase()-0.25) > 1e-12 {
		t.Fatalf("Phase()=%v, want 0.25", l.Phase())
	}
	if v := l.Next(); math.Abs(v-1) > 1e-12 {
		t.Fatalf("first value=%v, want 1", v)
	}

	l.Reset()
	if l.Phase() != 0 {
		t.Fatalf("Phase() after Reset=%v", l.Phase())
	}
}
