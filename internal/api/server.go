package api

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/aleister1102/pagewatch/internal/config"
	"github.com/aleister1102/pagewatch/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// TargetManager is the part of the monitoring service exposed over HTTP.
type TargetManager interface {
	AddTarget(url string) error
	RemoveTarget(url string) error
	Status() models.MonitorStatus
}

// Server is the HTTP command surface for managing monitored URLs.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	targets    TargetManager
	logger     zerolog.Logger
}

// NewServer creates a Server listening on cfg.ListenAddr.
func NewServer(cfg config.ServerConfig, targets TargetManager, logger zerolog.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		targets: targets,
		logger:  logger.With().Str("component", "APIServer").Logger(),
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/api/monitor", func(r chi.Router) {
		r.Post("/", s.handleAddTarget)
		r.Delete("/", s.handleRemoveTarget)
		r.Get("/status", s.handleStatus)
	})
}

// Router returns the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe binds the listen address and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("API server listening")
	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
