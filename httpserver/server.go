package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/algoviz/runbox/api"
	"github.com/algoviz/runbox/metrics"
)

// Engine is the surface the HTTP transport drives. *engine.Engine satisfies
// it; tests substitute a stub.
type Engine interface {
	Execute(ctx context.Context, req api.ExecutionRequest) (*api.ExecutionResult, []string, *api.Error)
	Benchmark(ctx context.Context, req api.BenchmarkRequest) (*api.BenchmarkSummary, *api.Error)
	Algorithms() []api.AlgorithmInfo
	Languages() []string
}

// Config holds the transport settings.
type Config struct {
	Port         int
	MaxBodyBytes int64
}

// DefaultConfig returns the transport settings used when configuration has
// no opinion. The body cap leaves room for the largest accepted source plus
// input with JSON overhead.
func DefaultConfig() Config {
	return Config{
		Port:         8080,
		MaxBodyBytes: 1 << 20,
	}
}

// Server wires the engine to a chi router and manages the listener
// lifecycle.
type Server struct {
	logger     *zap.Logger
	engine     Engine
	router     *chi.Mux
	httpServer *http.Server
	cfg        Config
}

// New creates a Server. Zero-valued config fields fall back to
// DefaultConfig.
func New(logger *zap.Logger, eng Engine, cfg Config) *Server {
	def := DefaultConfig()
	if cfg.Port <= 0 {
		cfg.Port = def.Port
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}

	s := &Server{
		logger: logger,
		engine: eng,
		router: chi.NewRouter(),
		cfg:    cfg,
	}
	s.routes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.router,
		// Benchmarks may legitimately run for tens of seconds, so the write
		// timeout is the loosest of the three.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(metrics.Middleware)
	s.router.Use(s.requestLogger)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/execute", s.handleExecute)
		r.Post("/benchmark", s.handleBenchmark)
		r.Get("/algorithms", s.handleAlgorithms)
	})
}

// Handler returns the assembled router. Tests drive it directly through
// httptest without opening a listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start opens the listener and begins serving in the background. Listen
// errors surface immediately so a taken port fails startup instead of
// logging from a goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until the
// context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}
