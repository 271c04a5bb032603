// Package server serves the docs with a per-visitor navigation tree and
// the JSON and websocket API the page script talks to.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docnav/internal/locale"
	"github.com/ziadkadry99/docnav/internal/logging"
	"github.com/ziadkadry99/docnav/internal/navtree"
	"github.com/ziadkadry99/docnav/internal/session"
	"github.com/ziadkadry99/docnav/internal/site"
)

// APIBase is the mount point of the navigation API.
const APIBase = "/api/nav"

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
	Nav      navtree.Options
}

// Server is the dynamic documentation server.
type Server struct {
	cfg        Config
	sites      *Sites
	locales    *locale.Resolver
	layout     *site.Layout
	sessions   *session.Manager
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server

	// done is closed on shutdown so websocket streams, which the http
	// server no longer tracks once hijacked, stop as well.
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a server over the loaded sites.
func New(cfg Config, sites *Sites, locales *locale.Resolver, layout *site.Layout, sessions *session.Manager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		sites:    sites,
		locales:  locales,
		layout:   layout,
		sessions: sessions,
		logger:   logger,
		done:     make(chan struct{}),
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route(APIBase, func(r chi.Router) {
		// The websocket outlives any request timeout.
		r.Get("/ws", s.handleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Get("/", s.handleNav)
			r.Post("/", s.handleNav)
			r.Post("/toggle", s.handleToggle)
			r.Get("/state", s.handleState)
			r.Delete("/state", s.handleResetState)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		for _, name := range []string{"style.css", "script.js", "highlight.css"} {
			r.Get("/"+name, s.handleAsset(name))
		}
		r.Get("/*", s.handlePage)
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("docnav server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
