package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-filterd/dsp/core"
)

// Generator renders fixed-frequency waveforms at a configured sample rate.
type Generator struct {
	cfg core.ProcessorConfig
}

// NewGenerator returns a Generator at core.DefaultSampleRate unless an option
// says otherwise.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{cfg: core.ApplyProcessorOptions(opts...)}
}

// Config returns the generator's processing settings.
func (g *Generator) Config() core.ProcessorConfig { return g.cfg }

// Sine is Periodic(Sine, ...).
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.Periodic(Sine, freqHz, amplitude, samples)
}

// Tone renders durationSec seconds of w, rounded to whole samples.
func (g *Generator) Tone(w Waveform, freqHz, amplitude, durationSec float64) ([]float64, error) {
	return g.Periodic(w, freqHz, amplitude, g.cfg.SampleCount(durationSec))
}

// Periodic renders samples of amplitude*Shape(w, f*n/sr). Each sample's phase
// is computed directly from its index, so long renders do not accumulate
// phase error.
func (g *Generator) Periodic(w Waveform, freqHz, amplitude float64, samples int) ([]float64, error) {
	switch {
	case samples <= 0:
		return nil, fmt.Errorf("%v: sample count must be > 0: %d", w, samples)
	case !w.valid():
		return nil, fmt.Errorf("unsupported waveform: %v", w)
	case !core.IsFinite(freqHz):
		return nil, fmt.Errorf("%v: frequency must be finite: %v", w, freqHz)
	}

	cyclesPerSample := freqHz / g.cfg.SampleRate
	out := make([]float64, samples)
	for n := range out {
		out[n] = amplitude * Shape(w, cyclesPerSample*float64(n))
	}
	return out, nil
}

// Normalize returns a copy of x scaled so that max|x| equals targetPeak.
// Silence stays silent.
func Normalize(x []float64, targetPeak float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("normalize: empty input")
	}
	if !(targetPeak >= 0) || math.IsInf(targetPeak, 1) {
		return nil, fmt.Errorf("normalize: target peak must be finite and >= 0: %v", targetPeak)
	}

	out := make([]float64, len(x))
	if peak := vecmath.MaxAbs(x); peak > 0 {
		vecmath.ScaleBlock(out, x, targetPeak/peak)
	}
	return out, nil
}
