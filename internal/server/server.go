// Package server provides the HTTP server and routing for the allocation
// engine.
package server

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jingmouren/gitlab-in-silico-public-charlie/internal/config"
	"github.com/jingmouren/gitlab-in-silico-public-charlie/internal/modules/kelly"
	kellyhandlers "github.com/jingmouren/gitlab-in-silico-public-charlie/internal/modules/kelly/handlers"
)

//go:embed static/demo.html static/openapi.json
var staticFS embed.FS

// Config holds server configuration.
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Port      int
	DevMode   bool
	KellyOpts kelly.Options
}

// Server represents the HTTP server.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
}

// New creates a new HTTP server with every route mounted.
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log,
	}

	s.setupMiddleware(cfg.DevMode, cfg.Config.RequestTimeout)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:    addrForPort(cfg.Port),
		Handler: s.router,
	}

	return s
}

func addrForPort(port int) string {
	if port <= 0 {
		port = 8080
	}
	return fmt.Sprintf(":%d", port)
}

// setupMiddleware configures middleware.
func (s *Server) setupMiddleware(devMode bool, requestTimeout time.Duration) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}
	s.router.Use(middleware.Timeout(requestTimeout))

	allowedOrigins := []string{"https://example.invalid"}
	if devMode {
		allowedOrigins = []string{"*"}
	}

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes wires every endpoint at the collaborator boundary onto the
// router.
func (s *Server) setupRoutes(cfg Config) {
	h := kellyhandlers.NewHandler(cfg.KellyOpts)
	h.RegisterRoutes(s.router)

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/api", s.handleOpenAPI)
	s.router.Get("/demo", s.handleDemo)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	data, err := staticFS.ReadFile("static/openapi.json")
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read embedded openapi schema")
		http.Error(w, "schema unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	data, err := staticFS.ReadFile("static/demo.html")
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read embedded demo page")
		http.Error(w, "demo unavailable", http.StatusInternalServerError)
		return
	}
	// A per-request nonce busts any intermediate cache of the static demo
	// page without needing a build step to fingerprint the asset.
	w.Header().Set("ETag", `"`+uuid.New().String()+`"`)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// loggingMiddleware logs one INFO line per HTTP request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// Start begins serving HTTP requests; it blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
