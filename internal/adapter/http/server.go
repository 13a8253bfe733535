package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/neo-risk-engine/internal/domain"
	"github.com/couchcryptid/neo-risk-engine/internal/observability"
)

const tracerName = "github.com/couchcryptid/neo-risk-engine/internal/adapter/http"

// maxBodyBytes bounds the size of an assessment request body.
const maxBodyBytes = 1 << 20

// Server exposes the assessment API alongside health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *observability.Metrics
	lookup     domain.NeoLookup
	tracer     trace.Tracer
}

// NewServer creates an HTTP server. lookup may be nil, in which case the
// NeoWs route answers 404.
func NewServer(addr string, ready sharedobs.ReadinessChecker, lookup domain.NeoLookup, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		logger:  logger,
		metrics: metrics,
		lookup:  lookup,
		tracer:  otel.Tracer(tracerName),
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS.Concise(true),
	}))

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/process/asteroid", s.handleAssess)
		r.Get("/neo/{id}/risk", s.handleNeoRisk)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// AlwaysReady is a readiness checker for deployments without a pipeline.
type AlwaysReady struct{}

// CheckReadiness always reports ready.
func (AlwaysReady) CheckReadiness(context.Context) error { return nil }
