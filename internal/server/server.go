package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"buildlight/internal/light"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// HTTP server timeouts
	HTTPReadTimeout  = 10 * time.Second
	HTTPWriteTimeout = 10 * time.Second
	HTTPIdleTimeout  = 60 * time.Second
)

// LightSetter changes the color of the build light.
type LightSetter interface {
	SetColor(ctx context.Context, color light.Color) light.Result
}

// Server represents the HTTP server
type Server struct {
	Light         LightSetter
	DeviceTimeout time.Duration
	Logger        *slog.Logger
}

// NewServer creates a new server instance. deviceTimeout is the bound the
// light applies to each call; it stretches the write timeout so a slow
// device cannot cut off the acknowledgment.
func NewServer(lights LightSetter, deviceTimeout time.Duration, logger *slog.Logger) *Server {
	return &Server{
		Light:         lights,
		DeviceTimeout: deviceTimeout,
		Logger:        logger,
	}
}

// Router creates and configures the HTTP router
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(NewRequestLogMiddleware(s.Logger))

	r.With(NewBodyLimitMiddleware(MaxPayloadBytes)).Post("/webhook", s.HandleWebhook)

	return r
}

// Start starts the HTTP server. It blocks until the listener fails.
func (s *Server) Start(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.Logger.Info("Starting server", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  HTTPReadTimeout,
		WriteTimeout: s.writeTimeout(),
		IdleTimeout:  HTTPIdleTimeout,
	}

	return server.ListenAndServe()
}

// writeTimeout covers the device call plus the usual write budget. An
// unbounded device call leaves the write unbounded too.
func (s *Server) writeTimeout() time.Duration {
	if s.DeviceTimeout <= 0 {
		return 0
	}
	return s.DeviceTimeout + HTTPWriteTimeout
}
