package server

import (
	"context"
	"errors"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/stepwise/internal/api"
	"github.com/abhisek/stepwise/internal/teaching"
)

func (s *Server) handleLessonStep(w http.ResponseWriter, r *http.Request) {
	var req api.LessonStepRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	s.log.DebugContext(ctx, "lesson-step request",
		"subject", req.Subject, "topic", req.Topic, "level", req.Level,
		"session_id", req.SessionID, "confusion", req.Confusion)

	resp, err := s.tutor.LessonStep(ctx, req)
	if err != nil {
		s.fail(w, r, "lesson-step", err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	var req api.PracticeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	resp, err := s.tutor.Practice(ctx, req)
	if err != nil {
		s.fail(w, r, "practice", err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:        "ok",
		LLMConfigured: s.tutor.Online(),
		Provider:      s.tutor.ProviderName(),
		Version:       s.opts.Version,
	}
	if resp.LLMConfigured {
		resp.Message = "Service is running. Language model provider " + resp.Provider + " is configured."
	} else {
		resp.Message = "Service is running. No language model is configured - using fallback responses."
	}

	status := http.StatusOK
	if s.opts.DB != nil {
		if err := s.opts.DB.Ping(r.Context()); err != nil {
			s.log.ErrorContext(r.Context(), "database health check failed", "error", err)
			resp.Status = "degraded"
			resp.Message = "Session storage is unavailable."
			status = http.StatusServiceUnavailable
		}
	}
	JSON(w, status, resp)
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.opts.RequestTimeout > 0 {
		return context.WithTimeout(r.Context(), s.opts.RequestTimeout)
	}
	return context.WithCancel(r.Context())
}

// fail maps a tutor error to a status code and {detail} body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var validation *teaching.ValidationError
	switch {
	case errors.As(err, &validation):
		Error(w, http.StatusUnprocessableEntity, validation.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.log.WarnContext(r.Context(), op+" timed out", "request_id", chiMiddleware.GetReqID(r.Context()))
		Error(w, http.StatusGatewayTimeout, "The tutor took too long to respond.")
	case teaching.IsUpstream(err):
		s.log.ErrorContext(r.Context(), op+" failed upstream", "error", err, "request_id", chiMiddleware.GetReqID(r.Context()))
		Error(w, http.StatusBadGateway, "LLM unavailable")
	default:
		s.log.ErrorContext(r.Context(), op+" failed", "error", err, "request_id", chiMiddleware.GetReqID(r.Context()))
		Error(w, http.StatusInternalServerError, "Error in "+op+": "+err.Error())
	}
}
