// Package api serves the layout engine over HTTP.
//
// # Routes
//
//	GET  /healthz      liveness probe
//	GET  /version      build information
//	POST /v1/layout    tasks (+ optional engine overrides and formats) → layout and artifacts
//	POST /v1/angles    weighted tasks → angle per task id (angle stage only)
//	GET  /metrics      Prometheus metrics, when a gatherer is configured
//
// Every response carries an X-Request-ID header. Errors are returned as
// {"error": {"code": ..., "message": ...}} with a status derived from the
// error code.
package api

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gravity/pkg/core/gravity"
	"github.com/matzehuels/gravity/pkg/pipeline"
)

// Limits applied to request bodies.
const (
	MaxBodyBytes = 1 << 20
	MaxTasks     = 2000
)

const (
	readHeaderTimeout = 5 * time.Second
	requestTimeout    = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// Engine is the base tuning that request overrides are applied to.
	// The zero value means gravity.DefaultConfig().
	Engine gravity.Config

	// Logger receives request logs. Nil discards them.
	Logger *log.Logger

	// Metrics, when set, is exposed on /metrics.
	Metrics prometheus.Gatherer
}

// Server is the HTTP front end of a pipeline.Runner.
type Server struct {
	runner  *pipeline.Runner
	engine  gravity.Config
	logger  *log.Logger
	metrics prometheus.Gatherer
	router  chi.Router
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Engine == (gravity.Config{}) {
		opts.Engine = gravity.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		runner:  runner,
		engine:  opts.Engine,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.recoverer)
	r.Use(s.observe)
	r.Use(serverHeader)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/layout", s.handleLayout)
		r.Post("/angles", s.handleAngles)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody(r, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
