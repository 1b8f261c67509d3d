package signal

import (
	"math"
	"testing"
)

func TestOscillatorMatchesClosedForm(t *testing.T) {
	const sr = 44100.0
	for _, w := range []Waveform{Sine, Sawtooth, Triangle} {
		osc, err := NewOscillator(w, sr)
		if err != nil {
			t.Fatalf("NewOscillator() error = %v", err)
		}

		g := NewGenerator()
		ref, err := g.Periodic(w, 440, 1, 4096)
		if err != nil {
			t.Fatalf("Periodic() error = %v", err)
		}

		for i, want := range ref {
			got := osc.Next(440)
			if math.Abs(got-want) > 1e-9 {
				t.Fatalf("%v sample %d: got %v, want %v", w, i, got, want)
			}
		}
	}
}

func TestOscillatorPhaseWraps(t *testing.T) {
	osc, err := NewOscillator(Sine, 100)
	if err != nil {
		t.Fatalf("NewOscillator() error = %v", err)
	}

	for i := 0; i < 1000; i++ {
		osc.Next(37)
		if p := osc.Phase(); p < 0 || p >= 1 {
			t.Fatalf("phase %v out of [0,1) after %d steps", p, i)
		}
	}

	osc.SetPhase(-0.25)
	if math.Abs(osc.Phase()-0.75) > 1e-12 {
		t.Fatalf("SetPhase(-0.25) -> %v, want 0.75", osc.Phase())
	}

	osc.Reset()
	if osc.Phase() != 0 {
		t.Fatalf("Reset phase = %v", osc.Phase())
	}
}

func TestOscillatorFrequencyChangeContinuous(t *testing.T) {
	osc, err := NewOscillator(Sine, 1000)
	if err != nil {
		t.Fatalf("NewOscillator() error = %v", err)
	}

	prev := osc.Next(10)
	for i := 0; i < 2000; i++ {
		f := 10.0
		if i%2 == 1 {
			f = 20
		}
		v := osc.Next(f)
		// Maximum slope of sin at 20 Hz / 1 kHz is 2*pi*0.02.
		if math.Abs(v-prev) > 2*math.Pi*0.02+1e-9 {
			t.Fatalf("jump at %d: %v -> %v", i, prev, v)
		}
		prev = v
	}
}

func TestNewOscillatorRejectsInvalid(t *testing.T) {
	if _, err := NewOscillator(Waveform(0), 44100); err == nil {
		t.Fatal("expected error for unknown waveform")
	}
	if _, err := NewOscillator(Sine, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewOscillator(Sine, math.NaN()); err == nil {
		t.Fatal("expected error for NaN sample rate")
	}
}
