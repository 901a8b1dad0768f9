package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/algoviz/runbox/api"
	"github.com/algoviz/runbox/bench"
	"github.com/algoviz/runbox/catalog"
	"github.com/algoviz/runbox/config"
	"github.com/algoviz/runbox/engine"
	"github.com/algoviz/runbox/httpserver"
	"github.com/algoviz/runbox/logger"
	"github.com/algoviz/runbox/mcpserver"
	"github.com/algoviz/runbox/sandbox"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.New,
			logger.NewFromConfig,

			catalog.New,
			newSandboxRegistry,
			newHarness,
			newEngine,

			newHTTPServer,
			newMCPServer,
		),

		fx.Invoke(run),

		// Use the application logger for fx logs
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	app.Run()
}

func newSandboxRegistry(cfg *config.Config, log *zap.Logger) *sandbox.Registry {
	return sandbox.NewRegistry(log, sandbox.Limits{
		Timeout:        cfg.Sandbox.Timeout(),
		MaxOutputBytes: cfg.Sandbox.MaxOutputBytes(),
		MaxCallStack:   cfg.Sandbox.MaxCallStack,
	})
}

func newHarness(cfg *config.Config, log *zap.Logger) *bench.Harness {
	return bench.New(log, bench.Config{
		Warmup:        cfg.Benchmark.Warmup,
		MinSampleTime: cfg.Benchmark.MinSampleTime(),
		MaxIterations: cfg.Benchmark.MaxIterations,
	})
}

func newEngine(cfg *config.Config, log *zap.Logger, runners *sandbox.Registry, algs *catalog.Registry, harness *bench.Harness) *engine.Engine {
	return engine.New(log, runners, algs, harness, engine.Config{
		ExecLimits: api.Limits{
			MaxSourceBytes: cfg.Sandbox.MaxSourceBytes(),
			MaxInputBytes:  cfg.Sandbox.MaxInputBytes(),
		},
		BenchLimits: api.BenchmarkLimits{
			MaxSizes:     cfg.Benchmark.MaxSizes,
			MaxInputSize: cfg.Benchmark.MaxInputSize,
		},
		MaxTraceSteps: cfg.Trace.MaxSteps,
		DefaultSizes:  cfg.Benchmark.Sizes,
	})
}

func newHTTPServer(cfg *config.Config, log *zap.Logger, eng *engine.Engine) *httpserver.Server {
	return httpserver.New(log, eng, httpserver.Config{
		Port: cfg.Server.HTTPPort,
	})
}

func newMCPServer(cfg *config.Config, log *zap.Logger, eng *engine.Engine) (*mcpserver.MCPServer, error) {
	return mcpserver.New(cfg, log, eng)
}

// run attaches the configured transport to the fx lifecycle. The stdio
// transport ends with its input stream, so it drives shutdown itself.
func run(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, log *zap.Logger, httpSrv *httpserver.Server, mcpSrv *mcpserver.MCPServer) error {
	switch cfg.Server.Transport {
	case "http":
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				return httpSrv.Start()
			},
			OnStop: func(ctx context.Context) error {
				return httpSrv.Shutdown(ctx)
			},
		})
	case "mcp-stdio":
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go func() {
					if err := mcpSrv.ServeStdio(); err != nil {
						log.Error("mcp stdio server stopped", zap.Error(err))
					}
					if err := shutdowner.Shutdown(); err != nil {
						log.Error("shutdown failed", zap.Error(err))
					}
				}()
				return nil
			},
		})
	case "mcp-http":
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go func() {
					if err := mcpSrv.ServeHTTP(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("mcp http server stopped", zap.Error(err))
						if err := shutdowner.Shutdown(); err != nil {
							log.Error("shutdown failed", zap.Error(err))
						}
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return mcpSrv.Shutdown(ctx)
			},
		})
	default:
		return fmt.Errorf("unsupported transport: %s", cfg.Server.Transport)
	}
	return nil
}
