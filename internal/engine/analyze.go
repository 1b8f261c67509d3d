package engine

import (
	"context"
	"math"

	"github.com/cwbudde/algo-filterd/dsp/filter/biquad"
	"github.com/cwbudde/algo-filterd/dsp/filter/design"
	"github.com/cwbudde/algo-filterd/dsp/filter/weighting"
	"github.com/cwbudde/algo-filterd/dsp/spectrum"
	"github.com/cwbudde/algo-filterd/stats/frequency"
	stattime "github.com/cwbudde/algo-filterd/stats/time"
)

const (
	// spectrumFloorDB is the lowest level reported by Analyze.
	spectrumFloorDB = -160.0

	// responseFloorDB is the lowest level reported by FilterResponse.
	responseFloorDB = -240.0

	// responseStartHz is the lowest frequency of a response curve.
	responseStartHz = 20.0
)

// Analyze computes the averaged amplitude spectrum of req.Samples along
// with time- and frequency-domain statistics.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (Spectrum, error) {
	const op = "analyze"

	plan, warn, err := validateAnalyze(req, s.Limits())
	if err != nil {
		return Spectrum{}, s.fail(op, err)
	}
	s.warn(op, warn)

	an, err := spectrum.NewAnalyzer(plan.fftSize, plan.window, s.pool)
	if err != nil {
		return Spectrum{}, s.fail(op, internalError(err))
	}

	res, err := an.Analyze(ctx, plan.samples, plan.sampleRate)
	if err != nil {
		if ctx.Err() != nil {
			return Spectrum{}, s.fail(op, cancelled(err))
		}
		return Spectrum{}, s.fail(op, internalError(err))
	}

	stats := frequency.Calculate(res.Magnitudes, plan.sampleRate)
	freqs := res.Frequencies()

	if plan.smoothing > 0 && len(freqs) > 2 {
		smoothed, err := spectrum.SmoothFractionalOctave(freqs[1:], res.Magnitudes[1:], plan.smoothing)
		if err != nil {
			return Spectrum{}, s.fail(op, internalError(err))
		}
		copy(res.Magnitudes[1:], smoothed)
	}

	weighted, err := weighting.Apply(plan.weighting, plan.samples, plan.sampleRate)
	if err != nil {
		return Spectrum{}, s.fail(op, internalError(err))
	}

	level := stattime.Measure(plan.samples)

	return Spectrum{
		FrequenciesHz: freqs,
		MagnitudesDB:  res.MagnitudesDB(spectrumFloorDB),
		FFTSize:       res.FFTSize,
		Frames:        res.Frames,
		PeakHz:        stats.PeakHz,
		CentroidHz:    stats.Centroid,
		RolloffHz:     stats.Rolloff,
		FlatnessRatio: stats.Flatness,
		RMS:           level.RMS,
		WeightedRMS:   stattime.RMS(weighted),
		Weighting:     plan.weighting.String(),
		Peak:          level.Peak,
		CrestFactor:   level.Crest,
		DCOffset:      level.DC,
		FullScale:     level.FullScale,
		Warnings:      warn,
	}, nil
}

// FilterResponse evaluates the magnitude response of spec at sampleRate on
// points log-spaced frequencies from 20 Hz to Nyquist. Zero points selects
// DefaultResponsePoints.
func (s *Service) FilterResponse(spec FilterSpec, sampleRate float64, points int) (Response, error) {
	const op = "filter_response"
	limits := s.Limits()

	sr, err := validateSampleRate("sample_rate", sampleRate)
	if err != nil {
		return Response{}, s.fail(op, err)
	}

	if points == 0 {
		points = DefaultResponsePoints
	}
	if points < 2 || points > MaxResponsePoints {
		return Response{}, s.fail(op, invalidParam("points", "must be in [2, %d]: %d", MaxResponsePoints, points))
	}

	var warn warnings
	fp, err := validateFilter(spec, sr, limits, &warn)
	if err != nil {
		return Response{}, s.fail(op, err)
	}
	s.warn(op, warn)

	coeffs, err := design.Design(fp.typ, fp.cutoffHz, fp.q, sr)
	if err != nil {
		return Response{}, s.fail(op, internalError(err))
	}
	chain := biquad.NewCascade(coeffs, fp.stages)

	freqs := logSpace(responseStartHz, sr/2, points)
	mags := make([]float64, points)
	for i, f := range freqs {
		db := chain.MagnitudeDB(f, sr)
		if math.IsNaN(db) || db < responseFloorDB {
			db = responseFloorDB
		}
		mags[i] = db
	}

	return Response{
		FrequenciesHz: freqs,
		MagnitudesDB:  mags,
		CutoffHz:      fp.cutoffHz,
		ResonanceQ:    fp.q,
		Stable:        chain.Stable(),
		Warnings:      warn,
	}, nil
}

// logSpace returns n logarithmically spaced values from lo to hi inclusive.
func logSpace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	ratio := math.Log(hi / lo)
	for i := range out {
		out[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}
	out[n-1] = hi
	return out
}
