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

	"github.com/matzehuels/trackbump/pkg/pipeline"
	"github.com/matzehuels/trackbump/pkg/store"
)

const (
	// DefaultMaxBodyBytes caps POST bodies.
	DefaultMaxBodyBytes = 32 << 20

	shutdownTimeout = 10 * time.Second
)

// TrackDefaults fill track dimensions missing from a request.
type TrackDefaults struct {
	BaseWidth    float64
	Spacing      float64
	DefaultWidth float64
}

// Server is the HTTP front end to the pipeline runner and layout store.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults TrackDefaults
	maxBody  int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithTrackDefaults sets the dimensions used when a request omits them.
func WithTrackDefaults(d TrackDefaults) Option { return func(s *Server) { s.defaults = d } }

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option { return func(s *Server) { s.maxBody = n } }

// NewServer creates a server. The runner is shared by all requests.
func NewServer(runner *pipeline.Runner, st store.Store, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		store:  st,
		defaults: TrackDefaults{
			BaseWidth:    pipeline.DefaultBaseWidth,
			Spacing:      pipeline.DefaultSpacing,
			DefaultWidth: pipeline.DefaultBaseWidth,
		},
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/modes", s.handleModes)
		r.Route("/layouts", func(r chi.Router) {
			r.Get("/", s.handleListLayouts)
			r.Post("/", s.handleCreateLayout)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetLayout)
				r.Delete("/", s.handleDeleteLayout)
				r.Get("/features", s.handleQueryFeatures)
				r.Get("/graph", s.handleGraph)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
