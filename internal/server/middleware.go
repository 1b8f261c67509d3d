package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// cors allows browser clients from the configured origin and answers
// preflight requests directly.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.Config().AllowedOrigin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		h.Set("Access-Control-Max-Age", "600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// altSvc advertises the HTTP/3 listener once it is bound.
func (s *Server) altSvc(next http.Handler) http.Handler {
	if s.h3 == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = s.h3.SetQUICHeaders(w.Header())
		next.ServeHTTP(w, r)
	})
}

// limit bounds concurrent processing and applies the processing timeout.
// Requests that cannot get a slot before the timeout receive 503.
func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.Config().Timeout())
		defer cancel()

		if err := s.sem.Acquire(ctx, 1); err != nil {
			s.writeStatus(w, r, http.StatusServiceUnavailable, kindBusy, "server busy, retry later")
			return
		}
		defer s.sem.Release(1)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logRequests writes one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := s.logger.Debug
		if status >= http.StatusInternalServerError {
			level = s.logger.Warn
		}
		level("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
			"proto", r.Proto)
	})
}

// isTimeout reports whether err is the processing deadline expiring.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
