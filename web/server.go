package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/siherrmann/wikigrapher/helper"
	"github.com/siherrmann/wikigrapher/model"
)

// GraphReader is the read side of a stored graph. It is implemented by the
// Postgres retrieval engine and by the SPARQL store.
type GraphReader interface {
	ListByType(ctx context.Context, typeIRI string, limit int) ([]*model.Resource, error)
	Describe(ctx context.Context, iri string) (*model.ResourceDescription, error)
	SearchByLabel(ctx context.Context, text string, limit int) ([]*model.Resource, error)
}

// Searcher ranks resources for a free text query.
type Searcher interface {
	Search(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error)
}

// Server serves the graph as HTML, RDF and JSON.
type Server struct {
	reader   GraphReader
	searcher Searcher // Optional
	registry *prometheus.Registry
	metrics  *httpMetrics
	logger   *slog.Logger
}

// NewServer creates a server reading from reader. HTTP metrics are
// registered on registry, a nil registry creates a private one.
func NewServer(reader GraphReader, registry *prometheus.Registry, logger *slog.Logger) (*Server, error) {
	if reader == nil {
		return nil, errors.New("graph reader is nil")
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := newHTTPMetrics(registry)
	if err != nil {
		return nil, helper.NewError("register http metrics", err)
	}

	server := &Server{
		reader:   reader,
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
	if searcher, ok := reader.(Searcher); ok {
		server.searcher = searcher
	}
	return server, nil
}

// SetSearcher replaces the ranking used by /search.
func (s *Server) SetSearcher(searcher Searcher) {
	s.searcher = searcher
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/characters", http.StatusFound)
	})
	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	r.Get("/characters", s.characters)
	r.Get("/search", s.search)
	r.Get("/resource/{name}", s.resource)

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", slog.String("addr", addr))
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return helper.NewError("listen", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return helper.NewError("shutdown", err)
	}
	s.logger.Info("Server stopped")
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
