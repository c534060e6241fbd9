// Package api is the HTTP surface: the chat-provider inbound webhook,
// health and metrics endpoints, and the preference-write route, wired
// with the teacher's Chi + Huma router stack.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hammed103/Aremu/internal/config"
	custommiddleware "github.com/hammed103/Aremu/internal/middleware"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	config *config.Config
	deps   *Dependencies
	logger *slog.Logger
	api    huma.API
	router *chi.Mux
}

// NewServer builds the API server, wiring Chi/Huma middleware exactly as
// the teacher's hub service does, then registering every route.
func NewServer(cfg *config.Config, deps *Dependencies, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))
	router.Use(custommiddleware.MaxBodySize(10 * 1024 * 1024))

	rateLimiter := custommiddleware.NewRateLimiter(
		cfg.RateLimitPerIP,
		cfg.RateLimitBurst,
		cfg.RateLimitGlobal,
		cfg.RateLimitGlobalBurst,
		logger,
	)
	router.Use(rateLimiter.Middleware())

	humaConfig := huma.DefaultConfig("Job Alert Pipeline API", "1.0.0")
	humaConfig.Info.Description = "Ingests, enriches, matches, and delivers job alerts over a chat provider."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://localhost:%d", cfg.Port), Description: "Development server"},
	}
	humaConfig.DocsPath = ""

	humaAPI := humachi.New(router, humaConfig)
	humaAPI.UseMiddleware(custommiddleware.Logging(logger))

	if cfg.APIKey != "" {
		logger.Info("API key authentication enabled")
		humaAPI.UseMiddleware(custommiddleware.APIKeyAuth(humaAPI, cfg.APIKey))
	}

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(docsHTML))
	})

	server := &Server{config: cfg, deps: deps, logger: logger, api: humaAPI, router: router}
	server.registerRoutes()

	return server
}

func (s *Server) registerRoutes() {
	RegisterHealthRoutes(s.router, s.deps)
	RegisterMetricsRoutes(s.router, s.deps, s.config.APIKey)
	RegisterWebhookRoutes(s.router, s.deps, s.config, s.logger)
	RegisterPreferenceRoutes(s.api, s.deps, s.logger)
	RegisterIngestRoutes(s.api, s.deps)
}

// Router returns the underlying Chi router for serving.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is canceled, then shuts down
// gracefully within a 15s grace window (spec.md §5: worker shutdown
// grace default).
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Address()
	s.logger.Info("starting server", "address", addr, "environment", s.config.Environment)

	httpServer := &http.Server{Addr: addr, Handler: s.Router()}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

const docsHTML = `<!doctype html>
<html>
  <head><title>Job Alert Pipeline API</title><meta charset="utf-8" /></head>
  <body>
    <script id="api-reference" data-url="/openapi.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>`
