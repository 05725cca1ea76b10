// Package server contains the fasthttp server exposing health and metrics endpoints
package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 120 * time.Second
)

// Server serves the relay's operational endpoints
type Server struct {
	Router *router.Router

	srv      *fasthttp.Server
	addr     string
	listener net.Listener
	logger   zerolog.Logger
}

// NewServer creates a server for port. Port "0" picks a free port on Start.
func NewServer(name, port string, logger zerolog.Logger) *Server {
	r := router.New()

	return &Server{
		Router: r,
		srv: &fasthttp.Server{
			Handler:      r.Handler,
			Name:         name,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		addr:   net.JoinHostPort("", port),
		logger: logger.With().Str("component", "http_server").Logger(),
	}
}

// RegisterMetrics exposes the Prometheus registry on GET /metrics
func (s *Server) RegisterMetrics() {
	s.Router.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
}

// Start binds the listener and serves in the background.
// A port that cannot be bound fails Start instead of the serving goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	go func() {
		if err := s.srv.Serve(ln); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server stopped serving")
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Start
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting connections and waits for open ones until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}

	if err := s.srv.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
