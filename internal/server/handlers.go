package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-filterd/internal/codec"
	"github.com/cwbudde/algo-filterd/internal/engine"
	"github.com/cwbudde/algo-filterd/internal/version"
)

const multipartMemory = 32 << 20

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeStatus(w, r, http.StatusNotFound, kindNotFound, "no route for "+r.URL.Path)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeStatus(w, r, http.StatusMethodNotAllowed, kindBadMethod, r.Method+" not allowed on "+r.URL.Path)
}

// handleHealth reports liveness and, given ?client_version=, whether the
// client's API version is supported.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.svc.Health()
	resp := healthResponse{
		Status:    h.Status,
		Version:   h.Version,
		Time:      h.Time,
		Endpoints: endpoints,
	}

	if cv := r.URL.Query().Get("client_version"); cv != "" {
		ok, err := version.Compatible(cv)
		if err != nil {
			s.writeStatus(w, r, http.StatusBadRequest, kindBadRequest, err.Error())
			return
		}
		resp.Compatible = &ok
	}

	s.writeJSON(w, r, http.StatusOK, resp)
}

// handleGenerate renders a bare waveform for display. Only the first
// preview samples are returned unless the client asks otherwise; preview 0
// returns everything.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var p paramsRequest
	if !s.decodeJSON(w, r, &p) {
		return
	}

	res, err := s.svc.GenerateWaveform(r.Context(), p.synthesis(""))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	limit := previewPoints
	if p.Preview != nil {
		limit = *p.Preview
	}
	points := res.Samples
	truncated := false
	if limit > 0 && len(points) > limit {
		points = points[:limit]
		truncated = true
	}

	s.writeJSON(w, r, http.StatusOK, generateResponse{
		Success:      true,
		Waveform:     points,
		SampleRate:   res.SampleRate,
		SamplingRate: res.SampleRate,
		Samples:      len(res.Samples),
		Preview:      truncated,
		Warnings:     res.Warnings,
	})
}

// handleSynthesize renders a one-shot tone. Without an explicit envelope
// or normalize flag the default ADSR envelope and peak normalization are
// applied. ?format=wav returns a WAV file instead of JSON.
func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var p paramsRequest
	if !s.decodeJSON(w, r, &p) {
		return
	}

	req := p.synthesis("")
	if p.Envelope == nil && p.Normalize == nil {
		req = engine.DefaultSynthesis(req)
	}

	res, err := s.svc.Synthesize(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if wantsWAV(r) {
		s.writeWAV(w, r, res.Samples, res.SampleRate, "synth.wav")
		return
	}

	s.writeJSON(w, r, http.StatusOK, synthesizeResponse{
		Success:    true,
		Audio:      res.Samples,
		SampleRate: res.SampleRate,
		Duration:   res.Duration,
		Waveform:   res.Waveform,
		Clipped:    res.Clipped,
		Warnings:   res.Warnings,
	})
}

// handleProcessAudio filters client-supplied samples.
func (s *Server) handleProcessAudio(w http.ResponseWriter, r *http.Request) {
	var p paramsRequest
	if !s.decodeJSON(w, r, &p) {
		return
	}

	res, err := s.svc.ProcessAudio(r.Context(), p.process())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, processedJSON(res))
}

// handleProcessFile filters an uploaded audio file. Parameters arrive as
// form fields with the same names as the JSON API. The response is a WAV
// file unless format=json is given.
func (s *Server) handleProcessFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.Config().MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, r, err)
			return
		}
		s.writeStatus(w, r, http.StatusBadRequest, kindBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeStatus(w, r, http.StatusBadRequest, kindBadRequest, "missing form file \"file\"")
		return
	}
	defer file.Close()

	decoded, err := codec.Decode(r.Context(), file, codec.FormatFromName(header.Filename), s.svc.Limits().MaxSamples)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := formParams(r)
	if err != nil {
		s.writeStatus(w, r, http.StatusBadRequest, kindBadRequest, err.Error())
		return
	}
	p.AudioData = decoded.Samples
	p.SampleRate = float64(decoded.SampleRate)

	res, err := s.svc.ProcessAudio(r.Context(), p.process())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if strings.EqualFold(r.FormValue("format"), "json") {
		s.writeJSON(w, r, http.StatusOK, processedJSON(res))
		return
	}

	name := strings.TrimSuffix(header.Filename, "."+string(decoded.Format)) + "_filtered.wav"
	s.writeWAV(w, r, res.Samples, res.SampleRate, name)
}

// handleAnalyze returns the averaged spectrum of the posted samples.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	samples := req.Samples
	if samples == nil {
		samples = req.AudioData
	}

	res, err := s.svc.Analyze(r.Context(), engine.AnalyzeRequest{
		Samples:          samples,
		SampleRate:       req.SampleRate,
		FFTSize:          req.FFTSize,
		Window:           req.Window,
		SmoothingOctaves: req.Smoothing,
		Weighting:        req.Weighting,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, analyzeResponse{
		Success:       true,
		FrequenciesHz: res.FrequenciesHz,
		MagnitudesDB:  res.MagnitudesDB,
		FFTSize:       res.FFTSize,
		Frames:        res.Frames,
		PeakHz:        res.PeakHz,
		CentroidHz:    res.CentroidHz,
		RolloffHz:     res.RolloffHz,
		Flatness:      res.FlatnessRatio,
		RMS:           res.RMS,
		WeightedRMS:   res.WeightedRMS,
		Weighting:     res.Weighting,
		Peak:          res.Peak,
		CrestFactor:   res.CrestFactor,
		DCOffset:      res.DCOffset,
		FullScale:     res.FullScale,
		Warnings:      res.Warnings,
	})
}

// handleFilterResponse returns the magnitude response of a filter.
func (s *Server) handleFilterResponse(w http.ResponseWriter, r *http.Request) {
	var req filterResponseRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	typ := req.FilterType
	if typ == "" {
		typ = defaultFilterType
	}
	spec := engine.FilterSpec{
		Type:       typ,
		CutoffHz:   orDefault(req.CutoffFreq, defaultCutoff),
		ResonanceQ: orDefault(req.Resonance, defaultResonance),
		Stages:     req.FilterStages,
	}

	res, err := s.svc.FilterResponse(spec, req.SampleRate, req.Points)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, filterCurveResponse{
		Success:       true,
		FrequenciesHz: res.FrequenciesHz,
		MagnitudesDB:  res.MagnitudesDB,
		CutoffHz:      res.CutoffHz,
		Resonance:     res.ResonanceQ,
		Stable:        res.Stable,
		Warnings:      res.Warnings,
	})
}

func processedJSON(res engine.Processed) processResponse {
	return processResponse{
		Success:         true,
		ProcessedAudio:  res.Samples,
		ProcessedLength: len(res.Samples),
		SampleRate:      res.SampleRate,
		OriginalRMS:     res.OriginalRMS,
		ProcessedRMS:    res.ProcessedRMS,
		Peak:            res.Peak,
		Clipped:         res.Clipped,
		ProcessingTime:  res.Elapsed.Seconds(),
		Warnings:        res.Warnings,
	}
}

func wantsWAV(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "wav") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "audio/wav")
}

func (s *Server) writeWAV(w http.ResponseWriter, r *http.Request, samples []float64, sampleRate float64, name string) {
	data, err := codec.WAVBytes(samples, int(sampleRate))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write wav", "path", r.URL.Path, "err", err)
	}
}

// formParams reads processing parameters from multipart form fields.
func formParams(r *http.Request) (paramsRequest, error) {
	var p paramsRequest
	var err error

	float := func(name string) *float64 {
		v := strings.TrimSpace(r.FormValue(name))
		if v == "" || err != nil {
			return nil
		}
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			err = fmt.Errorf("%s: %q is not a number", name, v)
			return nil
		}
		return &f
	}

	p.FilterType = r.FormValue("filter_type")
	p.CutoffFreq = float("cutoff_freq")
	p.Resonance = float("resonance")
	p.LFOWaveform = r.FormValue("lfo_waveform")
	p.LFOFreq = float("lfo_freq")
	p.LFODepth = float("lfo_depth")
	p.LFOTarget = r.FormValue("lfo_target")
	if v := float("output_sample_rate"); v != nil {
		p.OutputRate = *v
	}

	if v := r.FormValue("filter_stages"); v != "" && err == nil {
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = fmt.Errorf("filter_stages: %q is not an integer", v)
		}
		p.FilterStages = n
	}
	if v := r.FormValue("lfo_enabled"); v != "" && err == nil {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			err = fmt.Errorf("lfo_enabled: %q is not a boolean", v)
		}
		p.LFOEnabled = b
	}

	return p, err
}
