package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/docroutes/internal/live"
	"github.com/vango-dev/docroutes/pkg/router"
)

// WebSocketPath is where reload notifications are served.
const WebSocketPath = "/_docroutes/ws"

// Config configures a Server.
type Config struct {
	// Address is the address to listen on (e.g., ":3030").
	Address string

	// Holder provides the current table. Required.
	Holder *live.Holder

	// Resolver serves resolve and preview requests. Defaults to Holder;
	// set it to a decorated chain to add metrics, tracing or logging.
	Resolver router.Resolver

	// Hub, if set, is mounted at WebSocketPath.
	Hub *live.Hub

	// Gatherer, if set, is served at /metrics.
	Gatherer prometheus.Gatherer

	// Preview resolves every other GET path against the table.
	Preview bool

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds request header reads. Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	config   Config
	resolver router.Resolver
	handler  http.Handler
	logger   *slog.Logger
}

// New creates a Server. It panics if config.Holder is nil.
func New(config Config) *Server {
	if config.Holder == nil {
		panic("server: Config.Holder is required")
	}
	if config.Address == "" {
		config.Address = ":3030"
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.ReadHeaderTimeout == 0 {
		config.ReadHeaderTimeout = 5 * time.Second
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	s := &Server{
		config:   config,
		resolver: config.Resolver,
		logger:   logger,
	}
	if s.resolver == nil {
		s.resolver = config.Holder
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)

	// The upgrade needs the raw connection, so it stays outside gzip.
	if s.config.Hub != nil {
		r.Handle(WebSocketPath, s.config.Hub)
	}

	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return gzhttp.GzipHandler(next)
		})

		r.Get("/healthz", s.handleHealth)
		r.Route("/api", func(r chi.Router) {
			r.Get("/routes", s.handleRoutes)
			r.Get("/resolve", s.handleResolve)
			r.Get("/leaves", s.handleLeaves)
			r.Get("/stats", s.handleStats)
			r.Get("/query", s.handleQuery)
		})
		if s.config.Gatherer != nil {
			r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
		}
		if s.config.Preview {
			r.Get("/*", s.handlePreview)
		}
	})

	return r
}

// Handler returns the HTTP handler, for mounting in another router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are not closed by Shutdown.
	if s.config.Hub != nil {
		s.config.Hub.Close()
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}
	<-errCh

	s.logger.Info("server shutdown complete")
	return nil
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote", r.RemoteAddr),
				slog.String("request_id", chimw.GetReqID(r.Context())),
			)
		})
	}
}
