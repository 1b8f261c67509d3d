package engine

import (
	"time"

	"github.com/cwbudde/algo-filterd/dsp/signal"
)

// FilterSpec selects a resonant biquad. Type is one of lowpass, highpass or
// bandpass. Stages cascades identical sections; zero means one.
type FilterSpec struct {
	Type       string
	CutoffHz   float64
	ResonanceQ float64
	Stages     int
}

// LFOTarget names the parameter an LFO modulates.
type LFOTarget string

const (
	TargetCutoff    LFOTarget = "cutoff"
	TargetAmplitude LFOTarget = "amplitude"
	TargetFrequency LFOTarget = "frequency"
)

// LFOSpec configures a low-frequency oscillator. An empty Waveform means
// sine. An empty Target means cutoff when a filter is applied and amplitude
// otherwise.
type LFOSpec struct {
	Enabled  bool
	Waveform string
	RateHz   float64
	Depth    float64
	Target   LFOTarget
}

// SynthesisRequest describes a synthesized tone. A zero SampleRate selects
// the default rate; an empty Waveform selects sine.
type SynthesisRequest struct {
	Frequency  float64
	Duration   float64
	Waveform   string
	SampleRate float64
	Filter     *FilterSpec
	LFO        *LFOSpec
	Envelope   *signal.Envelope
	Normalize  bool
}

// ProcessRequest describes caller-supplied samples to filter. A non-zero
// OutputSampleRate resamples the filtered result to that rate.
type ProcessRequest struct {
	InputSamples     []float64
	SampleRate       float64
	OutputSampleRate float64
	Filter           *FilterSpec
	LFO              *LFOSpec
}

// AnalyzeRequest describes a spectrum analysis. A zero FFTSize selects
// DefaultFFTSize; an empty Window selects Hann. SmoothingOctaves > 0
// applies 1/N-octave smoothing to the magnitude curve. Weighting picks the
// curve for WeightedRMS (A, C or Z); empty means A.
type AnalyzeRequest struct {
	Samples          []float64
	SampleRate       float64
	FFTSize          int
	Window           string
	SmoothingOctaves int
	Weighting        string
}

// Health is the liveness report.
type Health struct {
	Status  string
	Version string
	Time    time.Time
}

// Synthesis is the result of GenerateWaveform and Synthesize.
type Synthesis struct {
	Samples    []float64
	SampleRate float64
	Duration   float64
	Waveform   string
	Clipped    int
	Warnings   []string
}

// Processed is the result of ProcessAudio.
type Processed struct {
	Samples      []float64
	SampleRate   float64
	OriginalRMS  float64
	ProcessedRMS float64
	Peak         float64
	Clipped      int
	Elapsed      time.Duration
	Warnings     []string
}

// Spectrum is the result of Analyze.
type Spectrum struct {
	FrequenciesHz []float64
	MagnitudesDB  []float64
	FFTSize       int
	Frames        int
	PeakHz        float64
	CentroidHz    float64
	RolloffHz     float64
	FlatnessRatio float64
	RMS           float64
	WeightedRMS   float64
	Weighting     string
	Peak          float64
	CrestFactor   float64 // Peak / RMS, 0 for silence
	DCOffset      float64
	FullScale     int // samples at or beyond full scale
	Warnings      []string
}

// Response is the result of FilterResponse.
type Response struct {
	FrequenciesHz []float64
	MagnitudesDB  []float64
	CutoffHz      float64
	ResonanceQ    float64
	Stable        bool
	Warnings      []string
}
