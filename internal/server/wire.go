package server

import (
	"strings"
	"time"

	"github.com/cwbudde/algo-filterd/dsp/signal"
	"github.com/cwbudde/algo-filterd/internal/engine"
)

// Defaults applied to fields the client omits.
const (
	defaultFrequency  = 440.0
	defaultDuration   = 1.0
	defaultCutoff     = 1000.0
	defaultResonance  = 0.7
	defaultLFORate    = 5.0
	defaultLFODepth   = 0.5
	defaultFilterType = "lowpass"

	// previewPoints bounds the waveform returned by /api/generate.
	previewPoints = 1000
)

// paramsRequest is the flat parameter set sent by the browser client.
// Pointer fields distinguish "absent" from zero.
type paramsRequest struct {
	Frequency    *float64      `json:"frequency"`
	Duration     *float64      `json:"duration"`
	Waveform     string        `json:"waveform"`
	SampleRate   float64       `json:"sample_rate"`
	OutputRate   float64       `json:"output_sample_rate"`
	FilterType   string        `json:"filter_type"`
	CutoffFreq   *float64      `json:"cutoff_freq"`
	Resonance    *float64      `json:"resonance"`
	FilterStages int           `json:"filter_stages"`
	LFOEnabled   bool          `json:"lfo_enabled"`
	LFOFreq      *float64      `json:"lfo_freq"`
	LFOWaveform  string        `json:"lfo_waveform"`
	LFODepth     *float64      `json:"lfo_depth"`
	LFOTarget    string        `json:"lfo_target"`
	Envelope     *envelopeJSON `json:"envelope"`
	Normalize    *bool         `json:"normalize"`
	AudioData    []float64     `json:"audio_data"`
	Preview      *int          `json:"preview"`
}

type envelopeJSON struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// filterSpec returns nil when no filter is requested. An empty type falls
// back to def; "none" always disables the filter.
func (p paramsRequest) filterSpec(def string) *engine.FilterSpec {
	typ := strings.TrimSpace(p.FilterType)
	if typ == "" {
		typ = def
	}
	if typ == "" || strings.EqualFold(typ, "none") {
		return nil
	}
	return &engine.FilterSpec{
		Type:       typ,
		CutoffHz:   orDefault(p.CutoffFreq, defaultCutoff),
		ResonanceQ: orDefault(p.Resonance, defaultResonance),
		Stages:     p.FilterStages,
	}
}

func (p paramsRequest) lfoSpec() *engine.LFOSpec {
	if !p.LFOEnabled {
		return nil
	}
	return &engine.LFOSpec{
		Enabled:  true,
		Waveform: p.LFOWaveform,
		RateHz:   orDefault(p.LFOFreq, defaultLFORate),
		Depth:    orDefault(p.LFODepth, defaultLFODepth),
		Target:   engine.LFOTarget(p.LFOTarget),
	}
}

func (p paramsRequest) synthesis(filterDefault string) engine.SynthesisRequest {
	req := engine.SynthesisRequest{
		Frequency:  orDefault(p.Frequency, defaultFrequency),
		Duration:   orDefault(p.Duration, defaultDuration),
		Waveform:   p.Waveform,
		SampleRate: p.SampleRate,
		Filter:     p.filterSpec(filterDefault),
		LFO:        p.lfoSpec(),
	}
	if p.Envelope != nil {
		req.Envelope = &signal.Envelope{
			AttackSec:    p.Envelope.Attack,
			DecaySec:     p.Envelope.Decay,
			SustainLevel: p.Envelope.Sustain,
			ReleaseSec:   p.Envelope.Release,
		}
	}
	if p.Normalize != nil {
		req.Normalize = *p.Normalize
	}
	return req
}

func (p paramsRequest) process() engine.ProcessRequest {
	in := p.AudioData
	if in == nil {
		in = []float64{}
	}
	return engine.ProcessRequest{
		InputSamples:     in,
		SampleRate:       p.SampleRate,
		OutputSampleRate: p.OutputRate,
		Filter:           p.filterSpec(defaultFilterType),
		LFO:              p.lfoSpec(),
	}
}

type analyzeRequest struct {
	Samples    []float64 `json:"samples"`
	AudioData  []float64 `json:"audio_data"`
	SampleRate float64   `json:"sample_rate"`
	FFTSize    int       `json:"fft_size"`
	Window     string    `json:"window"`
	Smoothing  int       `json:"smoothing"`
	Weighting  string    `json:"weighting"`
}

type filterResponseRequest struct {
	FilterType   string   `json:"filter_type"`
	CutoffFreq   *float64 `json:"cutoff_freq"`
	Resonance    *float64 `json:"resonance"`
	FilterStages int      `json:"filter_stages"`
	SampleRate   float64  `json:"sample_rate"`
	Points       int      `json:"points"`
}

type healthResponse struct {
	Status     string    `json:"status"`
	Version    string    `json:"version"`
	Time       time.Time `json:"time"`
	Endpoints  []string  `json:"endpoints"`
	Compatible *bool     `json:"compatible,omitempty"`
}

type generateResponse struct {
	Success      bool      `json:"success"`
	Waveform     []float64 `json:"waveform"`
	SampleRate   float64   `json:"sample_rate"`
	SamplingRate float64   `json:"sampling_rate"`
	Samples      int       `json:"samples"`
	Preview      bool      `json:"preview"`
	Warnings     []string  `json:"warnings,omitempty"`
}

type synthesizeResponse struct {
	Success    bool      `json:"success"`
	Audio      []float64 `json:"audio"`
	SampleRate float64   `json:"sample_rate"`
	Duration   float64   `json:"duration"`
	Waveform   string    `json:"waveform"`
	Clipped    int       `json:"clipped"`
	Warnings   []string  `json:"warnings,omitempty"`
}

type processResponse struct {
	Success         bool      `json:"success"`
	ProcessedAudio  []float64 `json:"processed_audio"`
	ProcessedLength int       `json:"processed_length"`
	SampleRate      float64   `json:"sample_rate"`
	OriginalRMS     float64   `json:"original_rms"`
	ProcessedRMS    float64   `json:"processed_rms"`
	Peak            float64   `json:"peak"`
	Clipped         int       `json:"clipped"`
	ProcessingTime  float64   `json:"processing_time"` // seconds
	Warnings        []string  `json:"warnings,omitempty"`
}

type analyzeResponse struct {
	Success       bool      `json:"success"`
	FrequenciesHz []float64 `json:"frequencies"`
	MagnitudesDB  []float64 `json:"magnitudes_db"`
	FFTSize       int       `json:"fft_size"`
	Frames        int       `json:"frames"`
	PeakHz        float64   `json:"peak_frequency"`
	CentroidHz    float64   `json:"spectral_centroid"`
	RolloffHz     float64   `json:"spectral_rolloff"`
	Flatness      float64   `json:"spectral_flatness"`
	RMS           float64   `json:"rms"`
	WeightedRMS   float64   `json:"weighted_rms"`
	Weighting     string    `json:"weighting"`
	Peak          float64   `json:"peak"`
	CrestFactor   float64   `json:"crest_factor"`
	DCOffset      float64   `json:"dc_offset"`
	FullScale     int       `json:"full_scale_samples"`
	Warnings      []string  `json:"warnings,omitempty"`
}

type filterCurveResponse struct {
	Success       bool      `json:"success"`
	FrequenciesHz []float64 `json:"frequencies"`
	MagnitudesDB  []float64 `json:"magnitudes_db"`
	CutoffHz      float64   `json:"cutoff_freq"`
	Resonance     float64   `json:"resonance"`
	Stable        bool      `json:"stable"`
	Warnings      []string  `json:"warnings,omitempty"`
}

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind"`
	Field     string `json:"field,omitempty"`
}
