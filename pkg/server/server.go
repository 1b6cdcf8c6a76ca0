// Package server runs one API surface as an HTTP server.
//
// A Server wraps a Surface's routes with the shared endpoints (/health,
// /metrics, /openapi.json), the middleware chain and envelope-shaped route
// misses, and manages the listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/getmockd/recstore/pkg/apidoc"
	"github.com/getmockd/recstore/pkg/logging"
	"github.com/getmockd/recstore/pkg/stateful"
)

// Surface is a set of routes served together on one port.
type Surface interface {
	// Name identifies the surface in logs ("memo", "inventory").
	Name() string

	// Register adds the surface's routes to mux.
	Register(mux *http.ServeMux)
}

// Server serves a single Surface.
type Server struct {
	surface      Surface
	log          *slog.Logger
	metrics      *stateful.MetricsObserver
	doc          *apidoc.Doc
	maxBodyBytes int64
	readTimeout  time.Duration
	writeTimeout time.Duration

	handler   http.Handler
	startTime time.Time

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to logging.Nop().
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics exposes obs at GET /metrics.
func WithMetrics(obs *stateful.MetricsObserver) Option {
	return func(s *Server) { s.metrics = obs }
}

// WithAPIDoc serves doc at GET /openapi.json.
func WithAPIDoc(doc *apidoc.Doc) Option {
	return func(s *Server) { s.doc = doc }
}

// WithMaxBodyBytes caps request bodies. Zero disables the limit.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

// WithTimeouts sets the HTTP read and write timeouts.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// New creates a server for surface. The handler chain is built immediately,
// so Handler can be used in tests without starting a listener.
func New(surface Surface, opts ...Option) *Server {
	s := &Server{
		surface:   surface,
		log:       logging.Nop(),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	surface.Register(mux)
	s.registerShared(mux)

	var h http.Handler = &dispatcher{mux: mux}
	h = bodyLimitMiddleware(h, s.maxBodyBytes)
	h = recoveryMiddleware(h, s.log)
	h = loggingMiddleware(h, s.log)
	h = requestIDMiddleware(h)
	s.handler = h
	return s
}

// Handler returns the full handler chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Name returns the surface name.
func (s *Server) Name() string {
	return s.surface.Name()
}

// Start listens on addr and serves in the background. Use ":0" for an
// ephemeral port and Addr to find it.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return fmt.Errorf("%s server already started", s.surface.Name())
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.writeTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	s.startTime = time.Now()

	s.log.Info("surface listening", "addr", ln.Addr().String())
	srv := s.httpServer
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done. It is a no-op if the server was never started.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	s.log.Info("surface shutting down")
	return srv.Shutdown(ctx)
}

// Uptime returns how long the server has been running.
func (s *Server) Uptime() time.Duration {
	return time.Since(s.startTime)
}
