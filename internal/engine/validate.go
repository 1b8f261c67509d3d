package engine

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/cwbudde/algo-filterd/dsp/core"
	"github.com/cwbudde/algo-filterd/dsp/filter/design"
	"github.com/cwbudde/algo-filterd/dsp/filter/weighting"
	"github.com/cwbudde/algo-filterd/dsp/modulation"
	"github.com/cwbudde/algo-filterd/dsp/signal"
	"github.com/cwbudde/algo-filterd/dsp/window"
)

// warnings collects non-fatal adjustments made while sanitizing a request.
type warnings []string

func (w *warnings) add(format string, args ...any) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

type filterPlan struct {
	typ        design.Type
	cutoffHz   float64
	q          float64
	stages     int
	sampleRate float64
}

type lfoPlan struct {
	waveform signal.Waveform
	rateHz   float64
	depth    float64
	target   LFOTarget
}

type synthPlan struct {
	waveform   signal.Waveform
	frequency  float64
	duration   float64
	sampleRate float64
	samples    int
	filter     *filterPlan
	lfo        *lfoPlan
	envelope   *signal.Envelope
	normalize  bool
}

type processPlan struct {
	input      []float64 // sanitized copy
	sampleRate float64
	outputRate float64
	filter     *filterPlan
	lfo        *lfoPlan
}

type analyzePlan struct {
	samples    []float64
	sampleRate float64
	fftSize    int
	window     window.Type
	smoothing  int
	weighting  weighting.Type
}

// validateSynthesis checks req against l and returns the sanitized plan
// and any clamping warnings.
func validateSynthesis(req SynthesisRequest, l Limits) (synthPlan, []string, error) {
	var warn warnings

	sr, err := validateSampleRate("sample_rate", req.SampleRate)
	if err != nil {
		return synthPlan{}, nil, err
	}

	name := req.Waveform
	if strings.TrimSpace(name) == "" {
		name = signal.Sine.String()
	}
	wf, perr := signal.ParseWaveform(name)
	if perr != nil {
		return synthPlan{}, nil, invalidParam("waveform", "unsupported waveform %q (want sine, square, sawtooth or triangle)", req.Waveform)
	}

	nyquist := sr / 2
	if !core.IsFinite(req.Frequency) || req.Frequency <= 0 || req.Frequency >= nyquist {
		return synthPlan{}, nil, invalidParam("frequency", "must be in (0, %g) Hz: %v", nyquist, req.Frequency)
	}

	if !core.IsFinite(req.Duration) || req.Duration <= 0 {
		return synthPlan{}, nil, invalidParam("duration", "must be > 0 and finite: %v", req.Duration)
	}

	// The longest synthesizable duration is bounded by both the time and
	// the sample budget at this rate.
	dur := req.Duration
	if longest := math.Min(l.MaxDurationSec, float64(l.MaxSamples)/sr); dur > longest {
		warn.add("duration %.3gs clamped to %.3gs at %g Hz", dur, longest, sr)
		dur = longest
	}

	n := min(core.SampleCount(dur, sr), l.MaxSamples)
	if n == 0 {
		return synthPlan{}, nil, invalidParam("duration", "shorter than one sample at %g Hz: %v", sr, req.Duration)
	}

	plan := synthPlan{
		waveform:   wf,
		frequency:  req.Frequency,
		duration:   dur,
		sampleRate: sr,
		samples:    n,
		normalize:  req.Normalize,
	}

	if req.Filter != nil {
		fp, err := validateFilter(*req.Filter, sr, l, &warn)
		if err != nil {
			return synthPlan{}, nil, err
		}
		plan.filter = &fp
	}

	lp, err := validateLFO(req.LFO, plan.filter != nil, true, &warn)
	if err != nil {
		return synthPlan{}, nil, err
	}
	plan.lfo = lp

	if req.Envelope != nil {
		if err := req.Envelope.Validate(); err != nil {
			return synthPlan{}, nil, &Error{Kind: KindInvalidParameter, Field: "envelope", Message: err.Error()}
		}
		env := *req.Envelope
		plan.envelope = &env
	}

	return plan, warn, nil
}

// validateProcess checks req against l. The returned plan holds a copy of
// the input with out-of-range samples clamped into [-1, 1].
func validateProcess(req ProcessRequest, l Limits) (processPlan, []string, error) {
	var warn warnings

	sr, err := validateSampleRate("sample_rate", req.SampleRate)
	if err != nil {
		return processPlan{}, nil, err
	}

	if req.Filter == nil {
		return processPlan{}, nil, invalidParam("filter_type", "a filter is required")
	}

	input, err := validateSamples("input_samples", req.InputSamples, l, &warn)
	if err != nil {
		return processPlan{}, nil, err
	}

	fp, err := validateFilter(*req.Filter, sr, l, &warn)
	if err != nil {
		return processPlan{}, nil, err
	}

	lp, err := validateLFO(req.LFO, true, false, &warn)
	if err != nil {
		return processPlan{}, nil, err
	}

	outRate := sr
	if req.OutputSampleRate != 0 {
		if outRate, err = validateSampleRate("output_sample_rate", req.OutputSampleRate); err != nil {
			return processPlan{}, nil, err
		}
		if n := math.Ceil(float64(len(input)) * outRate / sr); n > float64(l.MaxSamples) {
			return processPlan{}, nil, resourceExceeded("output_sample_rate", "%.0f output samples exceed the limit of %d", n, l.MaxSamples)
		}
	}

	return processPlan{input: input, sampleRate: sr, outputRate: outRate, filter: &fp, lfo: lp}, warn, nil
}

// validateAnalyze checks req against l.
func validateAnalyze(req AnalyzeRequest, l Limits) (analyzePlan, []string, error) {
	var warn warnings

	sr, err := validateSampleRate("sample_rate", req.SampleRate)
	if err != nil {
		return analyzePlan{}, nil, err
	}

	if len(req.Samples) == 0 {
		return analyzePlan{}, nil, invalidParam("samples", "must not be empty")
	}

	samples, err := validateSamples("samples", req.Samples, l, &warn)
	if err != nil {
		return analyzePlan{}, nil, err
	}

	size := req.FFTSize
	if size == 0 {
		size = DefaultFFTSize
	}
	if size < MinFFTSize || size > MaxFFTSize || bits.OnesCount(uint(size)) != 1 {
		return analyzePlan{}, nil, invalidParam("fft_size", "must be a power of two in [%d, %d]: %d", MinFFTSize, MaxFFTSize, req.FFTSize)
	}

	wt, perr := window.ParseType(req.Window)
	if perr != nil {
		return analyzePlan{}, nil, invalidParam("window", "%v", perr)
	}

	if req.SmoothingOctaves < 0 || req.SmoothingOctaves > MaxSmoothingFraction {
		return analyzePlan{}, nil, invalidParam("smoothing", "fraction must be in [0, %d]: %d", MaxSmoothingFraction, req.SmoothingOctaves)
	}

	wgt := weighting.TypeA
	if req.Weighting != "" {
		if wgt, perr = weighting.ParseType(req.Weighting); perr != nil {
			return analyzePlan{}, nil, invalidParam("weighting", "%v", perr)
		}
	}

	return analyzePlan{
		samples:    samples,
		sampleRate: sr,
		fftSize:    size,
		window:     wt,
		smoothing:  req.SmoothingOctaves,
		weighting:  wgt,
	}, warn, nil
}

func validateSampleRate(field string, sr float64) (float64, error) {
	if sr == 0 {
		return core.DefaultSampleRate, nil
	}
	if !core.IsFinite(sr) || sr < core.MinSampleRate || sr > core.MaxSampleRate {
		return 0, invalidParam(field, "must be in [%g, %g] Hz: %v", core.MinSampleRate, core.MaxSampleRate, sr)
	}
	return sr, nil
}

func validateSamples(field string, in []float64, l Limits, warn *warnings) ([]float64, error) {
	if len(in) > l.MaxSamples {
		return nil, resourceExceeded(field, "%d samples exceed the limit of %d", len(in), l.MaxSamples)
	}

	if i := core.AllFinite(in); i >= 0 {
		return nil, invalidParam(field, "non-finite sample at index %d", i)
	}

	out := make([]float64, len(in))
	copy(out, in)
	if clipped := core.ClipUnit(out); clipped > 0 {
		warn.add("%d input samples outside [-1, 1] were clamped", clipped)
	}
	return out, nil
}

func validateFilter(spec FilterSpec, sr float64, l Limits, warn *warnings) (filterPlan, error) {
	typ, err := design.ParseType(spec.Type)
	if err != nil {
		return filterPlan{}, invalidParam("filter_type", "unsupported filter type %q (want lowpass, highpass or bandpass)", spec.Type)
	}

	if !core.IsFinite(spec.CutoffHz) || spec.CutoffHz <= 0 {
		return filterPlan{}, invalidParam("cutoff_freq", "must be > 0 and finite: %v", spec.CutoffHz)
	}
	cutoff, changed := design.ClampCutoff(spec.CutoffHz, sr)
	if changed {
		warn.add("cutoff %g Hz clamped to %g Hz at sample rate %g Hz", spec.CutoffHz, cutoff, sr)
	}

	if !core.IsFinite(spec.ResonanceQ) || spec.ResonanceQ <= 0 {
		return filterPlan{}, invalidParam("resonance", "must be > 0 and finite: %v", spec.ResonanceQ)
	}
	q, changed := design.ClampQ(spec.ResonanceQ)
	if changed {
		warn.add("resonance %g clamped to %g", spec.ResonanceQ, q)
	}

	stages := spec.Stages
	if stages == 0 {
		stages = 1
	}
	if stages < 0 || stages > l.MaxStages {
		return filterPlan{}, invalidParam("filter_stages", "must be in [1, %d]: %d", l.MaxStages, spec.Stages)
	}

	return filterPlan{typ: typ, cutoffHz: cutoff, q: q, stages: stages, sampleRate: sr}, nil
}

// validateLFO returns nil when the LFO is absent or disabled. hasFilter
// selects the default target; canFM reports whether an oscillator exists to
// frequency-modulate.
func validateLFO(spec *LFOSpec, hasFilter, canFM bool, warn *warnings) (*lfoPlan, error) {
	if spec == nil || !spec.Enabled {
		return nil, nil
	}

	name := spec.Waveform
	if strings.TrimSpace(name) == "" {
		name = signal.Sine.String()
	}
	wf, err := signal.ParseWaveform(name)
	if err != nil {
		return nil, invalidParam("lfo_waveform", "unsupported waveform %q", spec.Waveform)
	}

	if !core.IsFinite(spec.RateHz) || spec.RateHz <= 0 || spec.RateHz > modulation.MaxLFORateHz {
		return nil, invalidParam("lfo_freq", "must be in (0, %g] Hz: %v", modulation.MaxLFORateHz, spec.RateHz)
	}

	if !core.IsFinite(spec.Depth) {
		return nil, invalidParam("lfo_depth", "must be finite: %v", spec.Depth)
	}
	depth := core.Clamp(spec.Depth, 0, 1)
	if depth != spec.Depth {
		warn.add("lfo depth %g clamped to %g", spec.Depth, depth)
	}

	target := LFOTarget(strings.ToLower(strings.TrimSpace(string(spec.Target))))
	switch target {
	case "":
		target = TargetAmplitude
		if hasFilter {
			target = TargetCutoff
		}
	case TargetCutoff:
		if !hasFilter {
			return nil, invalidParam("lfo_target", "cutoff modulation requires a filter")
		}
	case TargetFrequency:
		if !canFM {
			return nil, invalidParam("lfo_target", "frequency modulation requires synthesis")
		}
	case TargetAmplitude:
	default:
		return nil, invalidParam("lfo_target", "unsupported target %q (want cutoff, amplitude or frequency)", spec.Target)
	}

	return &lfoPlan{waveform: wf, rateHz: spec.RateHz, depth: depth, target: target}, nil
}
