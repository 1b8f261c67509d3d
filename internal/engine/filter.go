package engine

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-filterd/dsp/core"
	"github.com/cwbudde/algo-filterd/dsp/filter/biquad"
	"github.com/cwbudde/algo-filterd/dsp/filter/design"
	"github.com/cwbudde/algo-filterd/dsp/filter/svf"
	"github.com/cwbudde/algo-filterd/dsp/modulation"
)

// newLFO builds the oscillator for lp at sampleRate.
func newLFO(lp *lfoPlan, sampleRate float64) (*modulation.LFO, error) {
	lfo, err := modulation.NewLFO(sampleRate,
		modulation.WithLFOWaveform(lp.waveform),
		modulation.WithLFORateHz(lp.rateHz),
		modulation.WithLFODepth(lp.depth),
	)
	if err != nil {
		return nil, internalError(err)
	}
	return lfo, nil
}

// svfMode maps a filter type to the matching state-variable tap.
func svfMode(t design.Type) (svf.Mode, error) {
	switch t {
	case design.TypeLowpass:
		return svf.Lowpass, nil
	case design.TypeHighpass:
		return svf.Highpass, nil
	case design.TypeBandpass:
		return svf.Bandpass, nil
	default:
		return 0, fmt.Errorf("no state-variable form for filter type %v", t)
	}
}

// applyFilter runs buf through the planned filter in place and hard-clips
// the result to [-1, 1]. lp may be nil; otherwise it drives either the
// cutoff or the output gain. It returns the number of clipped samples.
//
// A fixed cutoff runs on a biquad cascade. A modulated cutoff runs on the
// state-variable form, which has the same response per cutoff but stays
// bounded when retuned every sample.
func applyFilter(ctx context.Context, buf []float64, fp *filterPlan, lp *lfoPlan, interval int) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if interval < 1 {
		interval = 1
	}

	var cutoffLFO, gainLFO *modulation.LFO
	if lp != nil {
		lfo, err := newLFO(lp, fp.sampleRate)
		if err != nil {
			return 0, err
		}
		switch lp.target {
		case TargetCutoff:
			cutoffLFO = lfo
		case TargetAmplitude:
			gainLFO = lfo
		}
	}

	var (
		filter interface{ ProcessSample(float64) float64 }
		swept  *svf.Chain
	)
	if cutoffLFO != nil {
		mode, err := svfMode(fp.typ)
		if err != nil {
			return 0, internalError(err)
		}
		swept = svf.NewChain(mode, fp.stages, fp.cutoffHz, fp.q, fp.sampleRate)
		filter = swept
	} else {
		coeffs, err := design.Design(fp.typ, fp.cutoffHz, fp.q, fp.sampleRate)
		if err != nil {
			return 0, internalError(err)
		}
		filter = biquad.NewCascade(coeffs, fp.stages)
	}

	for i, x := range buf {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, cancelled(err)
			}
		}

		if cutoffLFO != nil {
			factor := cutoffLFO.NextFactor()
			if i%interval == 0 {
				cutoff, _ := design.ClampCutoff(fp.cutoffHz*factor, fp.sampleRate)
				swept.Tune(cutoff, fp.q, fp.sampleRate)
			}
		}

		y := filter.ProcessSample(x)
		if gainLFO != nil {
			y *= gainLFO.NextFactor()
		}
		if !core.IsFinite(y) {
			return 0, numericInstability(i, y)
		}
		buf[i] = y
	}

	return core.ClipUnit(buf), nil
}
