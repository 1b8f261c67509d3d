package engine

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-filterd/dsp/buffer"
	"github.com/cwbudde/algo-filterd/dsp/core"
	"github.com/cwbudde/algo-filterd/dsp/resample"
	"github.com/cwbudde/algo-filterd/dsp/signal"
	stattime "github.com/cwbudde/algo-filterd/stats/time"
)

// Service runs synthesis, filtering and analysis requests. It keeps no
// per-request state and is safe for concurrent use.
type Service struct {
	limits  atomic.Pointer[Limits]
	logger  *slog.Logger
	pool    *buffer.Pool
	version string
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger. Nil discards log output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l == nil {
			l = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		s.logger = l
	}
}

// WithLimits sets the initial limits. Invalid limits are ignored.
func WithLimits(l Limits) Option {
	return func(s *Service) {
		if l.Validate() == nil {
			s.limits.Store(&l)
		}
	}
}

// WithVersion sets the version reported by Health.
func WithVersion(v string) Option {
	return func(s *Service) { s.version = v }
}

// NewService returns a Service with default limits.
func NewService(opts ...Option) *Service {
	s := &Service{
		logger:  slog.Default(),
		pool:    buffer.NewPool(),
		version: "dev",
		now:     time.Now,
	}
	l := DefaultLimits()
	s.limits.Store(&l)

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Limits returns the limits currently in force.
func (s *Service) Limits() Limits {
	return *s.limits.Load()
}

// SetLimits atomically replaces the limits. Requests already running keep
// the limits they started with.
func (s *Service) SetLimits(l Limits) error {
	if err := l.Validate(); err != nil {
		return invalidParam("limits", "%v", err)
	}
	s.limits.Store(&l)
	s.logger.Info("limits updated",
		"max_samples", l.MaxSamples,
		"max_duration_sec", l.MaxDurationSec,
		"max_stages", l.MaxStages,
		"coefficient_interval", l.CoefficientInterval)
	return nil
}

// Version returns the service version.
func (s *Service) Version() string { return s.version }

// Health reports liveness.
func (s *Service) Health() Health {
	return Health{Status: "healthy", Version: s.version, Time: s.now().UTC()}
}

// GenerateWaveform renders a bare oscillator: no filter, envelope or
// normalization. An LFO may still modulate amplitude or frequency.
func (s *Service) GenerateWaveform(ctx context.Context, req SynthesisRequest) (Synthesis, error) {
	req.Filter = nil
	req.Envelope = nil
	req.Normalize = false
	return s.synthesize(ctx, "generate", req)
}

// Synthesize renders a tone with optional filter, LFO, envelope and
// normalization.
func (s *Service) Synthesize(ctx context.Context, req SynthesisRequest) (Synthesis, error) {
	return s.synthesize(ctx, "synthesize", req)
}

func (s *Service) synthesize(ctx context.Context, op string, req SynthesisRequest) (Synthesis, error) {
	limits := s.Limits()

	plan, warn, err := validateSynthesis(req, limits)
	if err != nil {
		return Synthesis{}, s.fail(op, err)
	}
	s.warn(op, warn)

	out, clipped, err := render(ctx, plan, limits.CoefficientInterval)
	if err != nil {
		return Synthesis{}, s.fail(op, err)
	}

	s.logger.Debug("rendered",
		"op", op,
		"waveform", plan.waveform.String(),
		"frequency_hz", plan.frequency,
		"samples", len(out),
		"clipped", clipped)

	return Synthesis{
		Samples:    out,
		SampleRate: plan.sampleRate,
		Duration:   float64(len(out)) / plan.sampleRate,
		Waveform:   plan.waveform.String(),
		Clipped:    clipped,
		Warnings:   warn,
	}, nil
}

// ProcessAudio filters req.InputSamples. The result has the same length
// as the input and never aliases it. Empty input yields empty output.
func (s *Service) ProcessAudio(ctx context.Context, req ProcessRequest) (Processed, error) {
	const op = "process"
	start := s.now()
	limits := s.Limits()

	plan, warn, err := validateProcess(req, limits)
	if err != nil {
		return Processed{}, s.fail(op, err)
	}
	s.warn(op, warn)

	originalRMS := stattime.RMS(plan.input)
	out := plan.input
	clipped, err := applyFilter(ctx, out, plan.filter, plan.lfo, limits.CoefficientInterval)
	if err != nil {
		return Processed{}, s.fail(op, err)
	}

	if plan.outputRate != plan.sampleRate {
		out, err = resample.Convert(ctx, out, plan.sampleRate, plan.outputRate, resample.QualityBalanced)
		if err != nil {
			if ctx.Err() != nil {
				return Processed{}, s.fail(op, cancelled(err))
			}
			return Processed{}, s.fail(op, internalError(err))
		}
		clipped += core.ClipUnit(out)
	}

	elapsed := s.now().Sub(start)
	s.logger.Debug("processed",
		"filter", plan.filter.typ.String(),
		"cutoff_hz", plan.filter.cutoffHz,
		"q", plan.filter.q,
		"samples", len(out),
		"output_rate", plan.outputRate,
		"clipped", clipped,
		"elapsed", elapsed)

	return Processed{
		Samples:      out,
		SampleRate:   plan.outputRate,
		OriginalRMS:  originalRMS,
		ProcessedRMS: stattime.RMS(out),
		Peak:         stattime.Peak(out),
		Clipped:      clipped,
		Elapsed:      elapsed,
		Warnings:     warn,
	}, nil
}

// DefaultSynthesis fills in the envelope and normalization used for one-shot
// tones when the caller gives none.
func DefaultSynthesis(req SynthesisRequest) SynthesisRequest {
	if req.Envelope == nil && req.Duration > 0 {
		env := signal.DefaultEnvelope(req.Duration)
		req.Envelope = &env
		req.Normalize = true
	}
	return req
}

func (s *Service) warn(op string, warn []string) {
	for _, w := range warn {
		s.logger.Warn("request adjusted", "op", op, "detail", w)
	}
}

// fail logs err at a level matching its kind and returns it unchanged.
func (s *Service) fail(op string, err error) error {
	switch KindOf(err) {
	case KindInternal:
		s.logger.Error("request failed", "op", op, "err", err)
	case KindNumericInstability, KindResourceExceeded:
		s.logger.Warn("request rejected", "op", op, "kind", string(KindOf(err)), "err", err)
	default:
		s.logger.Debug("request rejected", "op", op, "kind", string(KindOf(err)), "err", err)
	}
	return err
}
