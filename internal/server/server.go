// Package server hosts interactive jsonviz sessions over HTTP.
//
// Each browser page is bound to one [session.Session] through a websocket
// at /ws/{id}. The page sends ready once mounted; the server answers with
// the document echo and the first update, then relays every toggle, edit
// and viewport change through [session.Session.Handle]. A small REST API
// exposes the same operations for scripts and tests.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/jsonviz/pkg/session"
)

const (
	// DefaultAddr is the listen address used when Config.Addr is empty.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultIdleTimeout is how long an untouched session stays in memory.
	DefaultIdleTimeout = 30 * time.Minute

	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 32 << 20
)

// Config configures a Server.
type Config struct {
	Addr    string
	Manager *session.Manager
	Logger  *log.Logger

	// Initial is loaded into every session created by GET /.
	Initial any
	// Title is the page title.
	Title string
	// Editor shows the JSON editor panel next to the diagram.
	Editor bool

	// IdleTimeout evicts sessions untouched for this long (zero uses
	// DefaultIdleTimeout); evicted sessions are saved and restored on demand.
	IdleTimeout time.Duration
}

// Server is the HTTP host.
type Server struct {
	cfg      Config
	logger   *log.Logger
	manager  *session.Manager
	router   chi.Router
	upgrader websocket.Upgrader
}

// New creates a server. A nil Manager keeps sessions in memory.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Manager == nil {
		cfg.Manager = session.NewManager(nil, session.Options{Logger: cfg.Logger}, 0)
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Title == "" {
		cfg.Title = "jsonviz"
	}

	s := &Server{
		cfg:     cfg,
		logger:  cfg.Logger,
		manager: cfg.Manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/s/{id}", s.handlePage)
	r.Get("/ws/{id}", s.handleSocket)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDelete)
			r.Get("/scene.{format}", s.handleScene)
			r.Post("/messages", s.handleMessages)
		})
	})
	return r
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on Config.Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully and
// saves every live session.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	go s.evictLoop(ctx)

	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down", "sessions", s.manager.Len())
	err := srv.Shutdown(shutdownCtx)
	if saveErr := s.manager.Shutdown(shutdownCtx); saveErr != nil {
		s.logger.Warn("could not save sessions", "error", saveErr)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) evictLoop(ctx context.Context) {
	interval := s.cfg.IdleTimeout / 2
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.manager.Evict(ctx, s.cfg.IdleTimeout)
			if err != nil {
				s.logger.Warn("session eviction failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Debug("evicted idle sessions", "count", n)
			}
		}
	}
}
