// Package api provides the HTTP surface for intakeflow.
//
// It exposes the per-channel webhooks (SMS, email), the streaming web-chat
// endpoint, and a direct record-store endpoint for operators.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goldenstatemt/intakeflow/internal/genai"
	"github.com/goldenstatemt/intakeflow/internal/intake"
	"github.com/goldenstatemt/intakeflow/internal/messaging"
	"github.com/goldenstatemt/intakeflow/internal/store"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Opts holds configuration options for the API server.
type Opts struct {
	Addr string
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server wires the intake orchestrator and channel services behind HTTP
// endpoints.
type Server struct {
	orchestrator *intake.Orchestrator
	smsService   messaging.Service
	emailService messaging.Service
	streamer     genai.Streamer
	st           store.IntakeStore
	addr         string
	httpServer   *http.Server
}

// NewServer creates the API server. smsService and emailService may be nil
// when a channel is not configured; the matching webhook then rejects
// requests. streamer may be nil to disable the chat endpoint.
func NewServer(orchestrator *intake.Orchestrator, smsService, emailService messaging.Service, streamer genai.Streamer, st store.IntakeStore, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	return &Server{
		orchestrator: orchestrator,
		smsService:   smsService,
		emailService: emailService,
		streamer:     streamer,
		st:           st,
		addr:         cfg.Addr,
	}
}

// Router builds the chi router with all endpoints mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// The chat widget is served from a separate origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/sms", func(r chi.Router) {
		r.Post("/", s.handleIncomingSMS)
		r.Post("/status", s.handleSMSStatus)
	})
	r.Post("/email", s.handleIncomingEmail)
	r.Post("/chat", s.handleChat)
	r.Post("/store", s.handleStoreRecord)

	return r
}

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown failed", "error", err)
		}
	}()

	slog.Info("API server listening", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
