// Package httpapi wires the HTTP surface of the bookkeeping service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"schoolbooks/internal/service/entry"
	"schoolbooks/internal/service/registry"
)

// Server wires handlers and middleware using Chi.
// It composes read and write dependencies through the services.
type Server struct {
	entrySvc entry.Service
	regSvc   registry.Service
	store    Store
	log      *slog.Logger
	rt       *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
// The logger is used by basic request/response logging and panic recovery.
func New(store Store, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(metricsMiddleware)
	r.Use(recoverer(logger))

	s := &Server{
		entrySvc: entry.New(store, store),
		regSvc:   registry.New(store, store),
		store:    store,
		log:      logger,
		rt:       r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
	// Books (v1)
	s.rt.Route("/v1/books/{book}", func(r chi.Router) {
		r.Use(bookCtx)
		r.With(s.validateEntryBody()).Post("/entries", s.postEntry)
		r.Get("/entries", s.listEntries)
		r.Get("/entries/{id}", s.getEntry)
		r.With(s.validateEntryBody()).Patch("/entries/{id}", s.patchEntry)
		r.Delete("/entries/{id}", s.deleteEntry)
		r.Get("/export", s.exportBook)
		r.Post("/import", s.importBook)
		r.Get("/options", s.bookOptions)
	})
	// Dashboard (v1)
	s.rt.Get("/v1/dashboard", s.dashboard)
	// Rules (v1)
	s.rt.Post("/v1/rules", s.postRule)
	s.rt.Get("/v1/rules", s.listRules)
	s.rt.Get("/v1/rules/export", s.exportRules)
	s.rt.Patch("/v1/rules/{id}", s.patchRule)
	s.rt.Delete("/v1/rules/{id}", s.deleteRule)
	// Customers (v1)
	s.rt.Post("/v1/customers", s.postCustomer)
	s.rt.Get("/v1/customers", s.listCustomers)
	s.rt.Get("/v1/customers/export", s.exportCustomers)
	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}
