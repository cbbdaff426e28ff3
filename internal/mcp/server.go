package mcp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mbernardes19/torre-matheus/internal/api"
	"github.com/mbernardes19/torre-matheus/internal/config"
	"github.com/mbernardes19/torre-matheus/pkg/logging"
)

const (
	serverName    = "torre-matheus"
	serverVersion = "0.1.0"
)

// Server wraps an MCP SDK server and the REST API behind one HTTP listener
type Server struct {
	logger *logging.Logger
	config config.Config

	srv     *http.Server
	started atomic.Bool
}

// NewServer constructs the HTTP server: MCP at /mcp/stream, REST under /api/v1 and /healthz
func NewServer(log *logging.Logger, cfg config.Config, res *Resources) *Server {
	impl := &sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}

	mcpServer := sdkmcp.NewServer(impl, nil)
	NewToolRegistry(log).RegisterAll(mcpServer, res)

	stream := sdkmcp.NewStreamableHTTPHandler(func(req *http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	return &Server{
		logger: log,
		config: cfg,
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           newRouter(log, stream, api.NewHandler(res.Opportunities, res.Exporter, log)),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func newRouter(log *logging.Logger, stream http.Handler, rest *api.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Handle("/mcp/stream", stream)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Mount("/api/v1", rest.Routes())

	return r
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("HTTP server listening", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}
