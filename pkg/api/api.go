// Package api serves the evotree workspace over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /v1/resolve?name=lion          {key, stage, query}
//	GET    /v1/lineage/{key}              lineage path, DOMAIN..SPECIES
//	POST   /v1/previews  {"name": "..."}  preview with a uuid id
//	GET    /v1/previews/{id}
//	POST   /v1/previews/{id}/confirm      merged main tree
//	DELETE /v1/previews/{id}
//	GET    /v1/tree?format=json|dot|svg
//	GET    /v1/tree/stats
//	DELETE /v1/tree
//	GET    /metrics                       when a metrics handler is set
//
// Errors are JSON {"code", "message"} with a status derived from the error
// code. Every response carries an X-Request-ID header.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/evotree/evotree/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	Logger  *log.Logger
}

// Server is the HTTP front end of a workspace.
type Server struct {
	runner  *pipeline.Runner
	ws      *pipeline.Workspace
	logger  *log.Logger
	metrics http.Handler
	router  http.Handler
}

// New creates a server over runner and ws.
func New(runner *pipeline.Runner, ws *pipeline.Workspace, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		ws:      ws,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/resolve", s.resolve)
		v1.Get("/lineage/{key}", s.lineage)

		v1.Route("/previews", func(pr chi.Router) {
			pr.Post("/", s.createPreview)
			pr.Route("/{id}", func(item chi.Router) {
				item.Get("/", s.getPreview)
				item.Delete("/", s.discardPreview)
				item.Post("/confirm", s.confirmPreview)
			})
		})

		v1.Route("/tree", func(tr chi.Router) {
			tr.Get("/", s.getTree)
			tr.Delete("/", s.clearTree)
			tr.Get("/stats", s.treeStats)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
