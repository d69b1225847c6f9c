package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/obsarray/hookup/pkg/hookup"
	"github.com/obsarray/hookup/pkg/logging"
	"github.com/obsarray/hookup/pkg/metrics"
)

// Server exposes the hookup engine over HTTP to the surrounding CLI/web
// tooling.
type Server struct {
	engine    *hookup.Engine
	logger    logging.Logger
	metrics   *metrics.Registry
	startTime time.Time
	version   string
	port      int

	httpServer *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

func WithLogger(logger logging.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

func WithMetrics(registry *metrics.Registry) ServerOption {
	return func(s *Server) { s.metrics = registry }
}

// NewServer creates a new API server
func NewServer(engine *hookup.Engine, port int, opts ...ServerOption) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNopLogger(),
		metrics:   metrics.DefaultRegistry(),
		startTime: time.Now(),
		version:   "1.0.0",
		port:      port,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(
		s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))

	// Proposal endpoints
	mux.HandleFunc("/connections", s.handleConnections)
	mux.HandleFunc("/disconnections", s.handleDisconnections)

	// Chain endpoints
	mux.HandleFunc("/chains", s.handleChains)
	mux.HandleFunc("/chains/", s.handleChain)     // /chains/{partId}
	mux.HandleFunc("/antennas/", s.handleAntenna) // /antennas/{base}/snap-ports
	mux.HandleFunc("/parts/", s.handlePart)       // /parts/{partId}/events

	var handler http.Handler = mux
	handler = s.metricsMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.panicRecoveryMiddleware(handler)
	return handler
}

// Start starts the HTTP server and blocks until it exits.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("API server listening", logging.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() {
			s.respondJSON(w, http.StatusOK, HealthResponse{
				Status:  "ok",
				Version: s.version,
				Uptime:  time.Since(s.startTime).String(),
			})
		}).
		NotAllowed()
}
