// Package server exposes parsing and stored trees over HTTP.
//
// Routes:
//
//	POST   /v1/trees                     parse the request body and store the tree
//	GET    /v1/trees                     list stored trees, newest first
//	GET    /v1/trees/{id}                render a stored tree (?format=json|text|dot|svg|png)
//	GET    /v1/trees/{id}/nodes/{node}   one node with its children, for lazy browsing
//	DELETE /v1/trees/{id}                remove a stored tree
//	GET    /v1/stats                     parse, cache and request counters
//	GET    /healthz                      liveness and build information
//
// POST accepts the profile selection as query parameters (profile, pattern,
// anchor, data, skip, heading, fold, marker). With ?format= the tree is
// rendered and returned directly instead of being stored.
package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/treetui/pkg/config"
	"github.com/matzehuels/treetui/pkg/observability"
	"github.com/matzehuels/treetui/pkg/pipeline"
	"github.com/matzehuels/treetui/pkg/store"
)

// DefaultListLimit caps GET /v1/trees when no limit is given.
const DefaultListLimit = 50

// Server is the HTTP API.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	runner   *pipeline.Runner
	store    store.Store
	counters *observability.Counters
	log      *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithCounters makes GET /v1/stats report c.
func WithCounters(c *observability.Counters) Option {
	return func(s *Server) { s.counters = c }
}

// New creates the server and its routes.
func New(cfg *config.Config, runner *pipeline.Runner, st store.Store, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		store:  st,
		log:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", s.handleStats)

		r.Route("/trees", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Get("/", s.handleList)
			r.Get("/{id}", s.handleGet)
			r.Delete("/{id}", s.handleDelete)
			r.Get("/{id}/nodes/{node}", s.handleNode)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "no such route", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	s.router = r
}
