package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/vault-auth/internal/auth"
	"github.com/hongminglow/vault-auth/internal/config"
	"github.com/hongminglow/vault-auth/internal/http/handlers"
	"github.com/hongminglow/vault-auth/internal/middleware"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, svc *auth.Service, logger *slog.Logger) *Server {
	return &Server{inner: &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Handler(cfg, svc, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// Handler builds the routed, middleware-wrapped handler.
func Handler(cfg config.Config, svc *auth.Service, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), svc).Register(mux)
	handlers.NewAuthHandler(svc, logger).Register(mux)

	var h http.Handler = mux
	h = middleware.Timeout(cfg.RequestTimeout, h)
	h = middleware.Logging(logger, h)
	return middleware.CORS(cfg.CORSOrigins, h)
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
