// Package server exposes the tutoring service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/stepwise/internal/api"
)

// Tutor is the teaching backend served by the HTTP layer.
type Tutor interface {
	LessonStep(ctx context.Context, req api.LessonStepRequest) (*api.LessonStepResponse, error)
	Practice(ctx context.Context, req api.PracticeRequest) (*api.PracticeResponse, error)
	Online() bool
	ProviderName() string
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Server.
type Options struct {
	Version         string
	CORSOrigins     []string
	RequestTimeout  time.Duration // per lesson/practice request; zero disables
	ShutdownTimeout time.Duration
	DB              Pinger // optional
	Logger          *slog.Logger
	AccessLog       bool
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	tutor Tutor
	opts  Options
	log   *slog.Logger
}

// New creates a Server.
func New(tutor Tutor, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{tutor: tutor, opts: opts, log: opts.Logger}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	if s.opts.AccessLog {
		r.Use(chiMiddleware.Logger)
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(CORS(s.opts.CORSOrigins))

	r.Post("/lesson-step", s.handleLessonStep)
	r.Post("/practice", s.handlePractice)
	r.Get("/health", s.handleHealth)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		Error(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", addr, "llm_configured", s.tutor.Online())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down gracefully", "timeout", s.opts.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.log.Info("server stopped")
	return nil
}
