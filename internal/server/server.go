// Package server exposes the filter engine over HTTP. Request and response
// field names follow the browser client: flat snake_case JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quic-go/quic-go/http3"
	"golang.org/x/sync/semaphore"

	"github.com/cwbudde/algo-filterd/internal/config"
	"github.com/cwbudde/algo-filterd/internal/engine"
)

// Server is the HTTP front end of an engine.Service.
type Server struct {
	svc    *engine.Service
	cfg    atomic.Pointer[config.Config]
	router *chi.Mux
	logger *slog.Logger
	sem    *semaphore.Weighted
	h3     *http3.Server
	level  *slog.LevelVar
}

// Option configures a Server.
type Option func(*Server)

// WithLogLevel hands the server the level variable behind its logger so
// Reload can apply a new log_level.
func WithLogLevel(lv *slog.LevelVar) Option {
	return func(s *Server) {
		s.level = lv
	}
}

// New creates a server for svc. cfg must be valid.
func New(svc *engine.Service, cfg config.Config, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		svc:    svc,
		router: chi.NewRouter(),
		logger: logger,
		sem:    semaphore.NewWeighted(cfg.MaxConcurrent),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg.Store(&cfg)

	if cfg.HTTP3Addr != "" {
		s.h3 = &http3.Server{Addr: cfg.HTTP3Addr, Handler: s.router}
	}

	s.setupRoutes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Config returns the configuration in force.
func (s *Server) Config() config.Config {
	return *s.cfg.Load()
}

// Reload applies a new configuration. Engine limits, timeouts, upload size,
// CORS origin and (with WithLogLevel) the log level take effect immediately;
// listener addresses and the concurrency bound need a restart.
func (s *Server) Reload(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.svc.SetLimits(cfg.Limits()); err != nil {
		return err
	}
	if s.level != nil {
		lvl, err := config.ResolveLogLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		s.level.Set(lvl)
	}

	old := s.cfg.Swap(&cfg)
	if old.Addr != cfg.Addr || old.HTTP3Addr != cfg.HTTP3Addr || old.MaxConcurrent != cfg.MaxConcurrent {
		s.logger.Warn("listener and concurrency changes apply after restart",
			"addr", cfg.Addr, "http3_addr", cfg.HTTP3Addr, "max_concurrent", cfg.MaxConcurrent)
	}
	return nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)
	r.Use(s.altSvc)
	r.Use(middleware.Compress(5, "application/json"))

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.limit)

			r.Post("/generate", s.handleGenerate)
			r.Post("/generate_waveform", s.handleGenerate)
			r.Post("/synthesize", s.handleSynthesize)
			r.Post("/process_audio", s.handleProcessAudio)
			r.Post("/process_file", s.handleProcessFile)
			r.Post("/analyze", s.handleAnalyze)
			r.Post("/filter_response", s.handleFilterResponse)
		})
	})
}

// endpoints lists the routes advertised by the health check.
var endpoints = []string{
	"GET /api/health",
	"POST /api/generate",
	"POST /api/synthesize",
	"POST /api/process_audio",
	"POST /api/process_file",
	"POST /api/analyze",
	"POST /api/filter_response",
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.Config()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.Timeout() + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 2)
	go func() {
		s.logger.Info("server starting", "addr", cfg.Addr)
		var err error
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http: %w", err)
		}
	}()

	if s.h3 != nil {
		go func() {
			s.logger.Info("http3 starting", "addr", cfg.HTTP3Addr)
			if err := s.h3.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- fmt.Errorf("http3: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errc:
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", "err", err)
	}
	if s.h3 != nil {
		if err := s.h3.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http3 shutdown error", "err", err)
		}
	}
	return runErr
}
