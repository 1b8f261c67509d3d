package engine

import (
	"context"
	"math"

	"github.com/cwbudde/algo-filterd/dsp/core"
	"github.com/cwbudde/algo-filterd/dsp/signal"
)

// render produces the samples described by plan: oscillator, optional
// modulation and filter, clipping, envelope and normalization, in that
// order. It returns the number of samples clipped into [-1, 1].
func render(ctx context.Context, plan synthPlan, interval int) ([]float64, int, error) {
	out, err := oscillate(ctx, plan)
	if err != nil {
		return nil, 0, err
	}

	clipped := 0
	if plan.filter != nil {
		lp := plan.lfo
		if lp != nil && lp.target == TargetFrequency {
			lp = nil
		}
		clipped, err = applyFilter(ctx, out, plan.filter, lp, interval)
		if err != nil {
			return nil, 0, err
		}
	} else {
		if plan.lfo != nil && plan.lfo.target == TargetAmplitude {
			if err := modulateGain(out, plan.lfo, plan.sampleRate); err != nil {
				return nil, 0, err
			}
		}
		clipped = core.ClipUnit(out)
	}

	if plan.envelope != nil {
		plan.envelope.Apply(out, plan.sampleRate)
	}

	if plan.normalize {
		out, err = signal.Normalize(out, 1)
		if err != nil {
			return nil, 0, internalError(err)
		}
	}

	return out, clipped, nil
}

// oscillate renders the raw waveform. Without frequency modulation the
// closed-form phase is used; with it the phase is accumulated per sample.
func oscillate(ctx context.Context, plan synthPlan) ([]float64, error) {
	if plan.lfo == nil || plan.lfo.target != TargetFrequency {
		gen := signal.NewGenerator(core.WithSampleRate(plan.sampleRate))
		out, err := gen.Periodic(plan.waveform, plan.frequency, 1, plan.samples)
		if err != nil {
			return nil, internalError(err)
		}
		return out, nil
	}

	osc, err := signal.NewOscillator(plan.waveform, plan.sampleRate)
	if err != nil {
		return nil, internalError(err)
	}
	lfo, err := newLFO(plan.lfo, plan.sampleRate)
	if err != nil {
		return nil, err
	}

	nyquist := plan.sampleRate / 2
	maxFreq := math.Nextafter(nyquist, 0)
	out := make([]float64, plan.samples)
	for i := range out {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, cancelled(err)
			}
		}
		f := core.Clamp(plan.frequency*lfo.NextFactor(), 0, maxFreq)
		out[i] = osc.Next(f)
	}
	return out, nil
}

// modulateGain applies tremolo, gain = 1 + depth*lfo, in place.
func modulateGain(buf []float64, lp *lfoPlan, sampleRate float64) error {
	lfo, err := newLFO(lp, sampleRate)
	if err != nil {
		return err
	}
	for i := range buf {
		buf[i] *= lfo.NextFactor()
	}
	return nil
}
