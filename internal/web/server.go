// Package web provides the HTTP API for importing time series and managing
// default analysis parameters.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/JonMunkholm/tsimport/internal/config"
	"github.com/JonMunkholm/tsimport/internal/importer"
	"github.com/JonMunkholm/tsimport/internal/settings"
	"github.com/JonMunkholm/tsimport/internal/viewer"
	weblog "github.com/JonMunkholm/tsimport/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the server hands requests to.
type Deps struct {
	Resolver *importer.Resolver
	Limiter  *importer.Limiter
	Viewers  *viewer.Registry
	Store    settings.Store
	Params   settings.Parameters

	// Gatherer backs the metrics endpoint; nil disables it.
	Gatherer prometheus.Gatherer
}

// Server is the HTTP server for the import API.
type Server struct {
	cfg      *config.Config
	resolver *importer.Resolver
	limiter  *importer.Limiter
	viewers  *viewer.Registry
	store    settings.Store
	gatherer prometheus.Gatherer

	paramsMu sync.RWMutex
	params   settings.Parameters

	router *chi.Mux
	server *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, deps Deps) *Server {
	if deps.Limiter == nil {
		deps.Limiter = importer.NewLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWait)
	}
	s := &Server{
		cfg:      cfg,
		resolver: deps.Resolver,
		limiter:  deps.Limiter,
		viewers:  deps.Viewers,
		store:    deps.Store,
		gatherer: deps.Gatherer,
		params:   deps.Params,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(weblog.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	if s.cfg.Metrics.Enabled && s.gatherer != nil {
		s.router.Handle(s.cfg.Metrics.Path, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/import", s.handleImport)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)

		r.Get("/viewers", s.handleListViewers)
		r.Get("/viewers/{id}", s.handleViewerData)
		r.Delete("/viewers/{id}", s.handleCloseViewer)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for running imports.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	return s.limiter.Drain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Params returns the current default parameters.
func (s *Server) Params() settings.Parameters {
	s.paramsMu.RLock()
	defer s.paramsMu.RUnlock()
	return s.params
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"viewers": s.viewers.Len(),
		"imports": map[string]int{
			"active":   s.limiter.Active(),
			"capacity": s.limiter.Capacity(),
		},
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) uploadDir() string {
	if s.cfg.Import.UploadDir != "" {
		return s.cfg.Import.UploadDir
	}
	return os.TempDir()
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
