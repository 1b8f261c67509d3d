package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/cwbudde/algo-filterd/internal/codec"
	"github.com/cwbudde/algo-filterd/internal/engine"
)

// Error kinds produced by the HTTP layer itself.
const (
	kindBusy       = "busy"
	kindNotFound   = "not_found"
	kindBadMethod  = "method_not_allowed"
	kindBadRequest = string(engine.KindInvalidParameter)
)

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "path", r.URL.Path, "err", err)
	}
}

func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request, status int, kind, msg string) {
	s.writeJSON(w, r, status, errorResponse{Error: msg, ErrorKind: kind})
}

// statusFor maps an engine error kind to an HTTP status.
func statusFor(err error) int {
	switch engine.KindOf(err) {
	case engine.KindInvalidParameter:
		return http.StatusBadRequest
	case engine.KindResourceExceeded:
		if isTimeout(err) {
			return http.StatusServiceUnavailable
		}
		return http.StatusRequestEntityTooLarge
	case engine.KindNumericInstability:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err to the client. Internal errors are logged in full
// and answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, codec.ErrUnsupportedFormat) || errors.Is(err, codec.ErrEmptyAudio) {
		s.writeStatus(w, r, http.StatusBadRequest, kindBadRequest, err.Error())
		return
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.writeStatus(w, r, http.StatusRequestEntityTooLarge, string(engine.KindResourceExceeded), "request body too large")
		return
	}
	if errors.Is(err, codec.ErrTooLong) {
		s.writeJSON(w, r, http.StatusRequestEntityTooLarge, errorResponse{
			Error:     err.Error(),
			ErrorKind: string(engine.KindResourceExceeded),
			Field:     "file",
		})
		return
	}

	kind := engine.KindOf(err)
	resp := errorResponse{Error: err.Error(), ErrorKind: string(kind)}

	var e *engine.Error
	if errors.As(err, &e) {
		resp.Field = e.Field
	}

	if kind == engine.KindInternal {
		s.logger.Error("internal error",
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err)
		resp.Error = "internal server error"
		resp.Field = ""
	}

	s.writeJSON(w, r, statusFor(err), resp)
}

// decodeJSON reads a JSON body of at most the configured upload size.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.Config().MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, r, err)
			return false
		}
		s.writeStatus(w, r, http.StatusBadRequest, kindBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
