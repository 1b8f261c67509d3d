package spectrum

import (
	"context"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-filterd/dsp/buffer"
	"github.com/cwbudde/algo-filterd/dsp/core"
	"github.com/cwbudde/algo-filterd/dsp/window"
)

// Result is an averaged one-sided amplitude spectrum. Magnitudes are scaled
// so that a full-scale sine centred on a bin reads 1.0 before window leakage.
type Result struct {
	FFTSize    int
	SampleRate float64
	Frames     int
	Magnitudes []float64 // FFTSize/2 + 1 bins, DC to Nyquist
}

// BinHz returns the bin spacing in Hz.
func (r Result) BinHz() float64 {
	if r.FFTSize == 0 {
		return 0
	}
	return r.SampleRate / float64(r.FFTSize)
}

// Frequencies returns the centre frequency of every bin.
func (r Result) Frequencies() []float64 {
	out := make([]float64, len(r.Magnitudes))
	step := r.BinHz()
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}

// MagnitudesDB returns 20*log10 of every magnitude, floored at floorDB.
func (r Result) MagnitudesDB(floorDB float64) []float64 {
	out := make([]float64, len(r.Magnitudes))
	for i, m := range r.Magnitudes {
		out[i] = core.AmplitudeDB(m, floorDB)
	}
	return out
}

// Analyzer computes averaged spectra for a fixed FFT size and window.
// An Analyzer is not safe for concurrent use; create one per goroutine.
type Analyzer struct {
	fftSize  int
	winType  window.Type
	win      []float64
	ampScale float64
	plan     *algofft.Plan[complex128]
	frames   *buffer.Pool
	fftIn    []complex128
	fftOut   []complex128
	re, im   []float64
	framePow []float64
	bins     int
	hop      int
}

// NewAnalyzer prepares an FFT plan of fftSize (a power of two >= 2) and a
// periodic window of type w. frames may be shared between analyzers; nil
// allocates a private pool.
func NewAnalyzer(fftSize int, w window.Type, frames *buffer.Pool) (*Analyzer, error) {
	if fftSize < 2 || bits.OnesCount(uint(fftSize)) != 1 {
		return nil, fmt.Errorf("spectrum fft size must be a power of two >= 2: %d", fftSize)
	}

	win := window.Generate(w, fftSize, window.WithPeriodic())
	if win == nil {
		return nil, fmt.Errorf("spectrum: unsupported window %v", w)
	}

	gain := window.CoherentGain(win)
	if gain == 0 {
		return nil, fmt.Errorf("spectrum: window %v has zero coherent gain", w)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum init fft plan: %w", err)
	}

	if frames == nil {
		frames = buffer.NewPool()
	}

	bins := fftSize/2 + 1

	return &Analyzer{
		fftSize:  fftSize,
		winType:  w,
		win:      win,
		ampScale: 2 / (gain * float64(fftSize)),
		plan:     plan,
		frames:   frames,
		fftIn:    make([]complex128, fftSize),
		fftOut:   make([]complex128, fftSize),
		re:       make([]float64, bins),
		im:       make([]float64, bins),
		framePow: make([]float64, bins),
		bins:     bins,
		hop:      fftSize / 2,
	}, nil
}

// FFTSize returns the transform length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// Window returns the analysis window type.
func (a *Analyzer) Window() window.Type { return a.winType }

// Analyze averages the power of half-overlapping frames of samples and
// returns the amplitude spectrum. Buffers shorter than one frame are
// zero-padded. ctx is checked between frames.
func (a *Analyzer) Analyze(ctx context.Context, samples []float64, sampleRate float64) (Result, error) {
	if len(samples) == 0 {
		return Result{}, fmt.Errorf("spectrum input must not be empty")
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Result{}, fmt.Errorf("spectrum sample rate must be > 0 and finite: %f", sampleRate)
	}

	acc := make([]float64, a.bins)
	frame := a.frames.Get(a.fftSize)
	defer a.frames.Put(frame)

	count := 0
	for offset := 0; ; offset += a.hop {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		frame.LoadFrame(samples, offset)
		if err := a.framePower(frame.Samples()); err != nil {
			return Result{}, err
		}
		vecmath.AddBlockInPlace(acc, a.framePow)
		count++

		if offset+a.fftSize >= len(samples) {
			break
		}
	}

	// Average power, then convert to single-sided amplitude.
	vecmath.ScaleBlockInPlace(acc, 1/float64(count))
	for i, p := range acc {
		m := math.Sqrt(p) * a.ampScale
		if i == 0 || i == a.bins-1 {
			m /= 2
		}
		acc[i] = m
	}

	return Result{
		FFTSize:    a.fftSize,
		SampleRate: sampleRate,
		Frames:     count,
		Magnitudes: acc,
	}, nil
}

func (a *Analyzer) framePower(frame []float64) error {
	if err := window.Multiply(frame, a.win); err != nil {
		return err
	}

	for i, v := range frame {
		a.fftIn[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.fftOut, a.fftIn); err != nil {
		return fmt.Errorf("spectrum fft: %w", err)
	}

	for i := 0; i < a.bins; i++ {
		a.re[i] = real(a.fftOut[i])
		a.im[i] = imag(a.fftOut[i])
	}

	vecmath.Power(a.framePow, a.re, a.im)
	return nil
}
