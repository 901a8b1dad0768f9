package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/xid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/algoviz/runbox/api"
	"github.com/algoviz/runbox/bench"
	"github.com/algoviz/runbox/catalog"
	"github.com/algoviz/runbox/metrics"
	"github.com/algoviz/runbox/sandbox"
	"github.com/algoviz/runbox/trace"
)

// Config carries the per-call bounds the engine applies. Everything is
// passed explicitly at construction; nothing is read from process-wide
// state.
type Config struct {
	ExecLimits    api.Limits
	BenchLimits   api.BenchmarkLimits
	MaxTraceSteps int
	DefaultSizes  []int
}

// DefaultConfig returns the bounds used when configuration has no opinion.
func DefaultConfig() Config {
	return Config{
		ExecLimits:    api.DefaultLimits(),
		BenchLimits:   api.DefaultBenchmarkLimits(),
		MaxTraceSteps: 2000,
		DefaultSizes:  []int{64, 128, 256, 512},
	}
}

// Engine coordinates the sandbox registry, the algorithm catalog, and the
// benchmark harness.
type Engine struct {
	logger  *zap.Logger
	runners *sandbox.Registry
	algs    *catalog.Registry
	harness *bench.Harness
	cfg     Config
}

// New creates an engine. Zero-valued config fields fall back to
// DefaultConfig.
func New(logger *zap.Logger, runners *sandbox.Registry, algs *catalog.Registry, harness *bench.Harness, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.ExecLimits == (api.Limits{}) {
		cfg.ExecLimits = def.ExecLimits
	}
	if cfg.BenchLimits == (api.BenchmarkLimits{}) {
		cfg.BenchLimits = def.BenchLimits
	}
	if cfg.MaxTraceSteps <= 0 {
		cfg.MaxTraceSteps = def.MaxTraceSteps
	}
	if len(cfg.DefaultSizes) == 0 {
		cfg.DefaultSizes = def.DefaultSizes
	}
	return &Engine{
		logger:  logger,
		runners: runners,
		algs:    algs,
		harness: harness,
		cfg:     cfg,
	}
}

// Languages returns the identifiers the sandbox registry can run.
func (e *Engine) Languages() []string {
	return e.runners.Languages()
}

// metricLanguage returns the label recorded for a request's language. Paths
// that observe before validation collapse anything outside the supported
// set to "invalid", so client input cannot mint new label values.
func (e *Engine) metricLanguage(language string) string {
	if slices.Contains(e.runners.Languages(), language) {
		return language
	}
	return "invalid"
}

// Algorithms returns listing metadata for every catalog entry.
func (e *Engine) Algorithms() []api.AlgorithmInfo {
	return e.algs.List()
}

// Execute runs one submitted program. It returns the assembled result, the
// non-fatal warnings gathered along the way, and the classified error for
// calls that did not fully succeed. Timed-out and faulted runs still return
// a result carrying partial output next to the error.
func (e *Engine) Execute(ctx context.Context, req api.ExecutionRequest) (*api.ExecutionResult, []string, *api.Error) {
	id := xid.New().String()
	x := e.newExecution(id)

	if verr := api.ValidateExecutionRequest(&req, e.runners.Languages(), e.cfg.ExecLimits); verr != nil {
		x.to(stageFailed)
		x.log.Info("request rejected",
			zap.String("language", req.Language),
			zap.String("kind", string(verr.Kind)),
			zap.String("param", verr.Param),
		)
		metrics.ObserveExecution(e.metricLanguage(req.Language), "rejected", 0)
		return nil, nil, verr
	}

	runner, err := e.runners.Get(req.Language)
	if err != nil {
		x.to(stageFailed)
		x.log.Error("runner lookup failed after validation", zap.Error(err))
		return nil, nil, api.NewInternalError("no runner available")
	}

	warnings := make([]string, 0, 2)
	alg := e.resolveAlgorithm(req.AlgorithmID, &warnings)

	x.to(stageExecuting)

	// The sandbox and the synthetic trace share no state, so they run
	// concurrently. Trace failures stay in traceErr and never abort the
	// group: stdout and stderr are valuable without a trace.
	var (
		outcome   sandbox.Outcome
		synthetic []api.TraceStep
		truncated bool
		traceErr  error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		oc, runErr := runner.Run(gctx, sandbox.Request{
			Language: req.Language,
			Code:     req.Code,
			Input:    req.Input,
		})
		if runErr != nil {
			return fmt.Errorf("failed to execute program: %w", runErr)
		}
		outcome = oc
		return nil
	})
	if alg != nil {
		input, usable := traceInput(req.Input, alg.DefaultInput)
		if !usable {
			warnings = append(warnings, "input is not a numeric array, traced the default input")
		}
		g.Go(func() error {
			synthetic, truncated, traceErr = e.buildTrace(alg, input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		x.to(stageFailed)
		if ctx.Err() != nil {
			x.log.Info("execution abandoned by caller", zap.Error(err))
			metrics.ObserveExecution(req.Language, "cancelled", 0)
			return nil, nil, api.NewInternalError("execution cancelled")
		}
		x.log.Error("execution failed", zap.Error(err))
		metrics.ObserveExecution(req.Language, "internal_error", 0)
		return nil, nil, api.NewInternalError("execution failed unexpectedly")
	}

	result, execErr := resultFromOutcome(id, outcome)
	if execErr != nil {
		if result != nil {
			result.Trace = []api.TraceStep{}
		}
		x.to(stageFailed)
		x.log.Info("execution did not complete",
			zap.String("language", req.Language),
			zap.String("status", string(outcome.Status)),
			zap.Duration("duration", outcome.Duration),
		)
		metrics.ObserveExecution(req.Language, string(outcome.Status), outcome.Duration)
		return result, warnings, execErr
	}

	x.to(stageTracing)
	steps := e.selectTrace(req.AlgorithmID, alg, synthetic, traceErr, outcome.Stdout, &warnings)
	if alg != nil && traceErr == nil && truncated {
		warnings = append(warnings, fmt.Sprintf("trace truncated at %d steps", e.cfg.MaxTraceSteps))
	}

	x.to(stageAssembling)
	if steps == nil {
		steps = []api.TraceStep{}
	}
	result.Trace = steps
	x.to(stageDone)

	x.log.Info("execution finished",
		zap.String("language", req.Language),
		zap.Duration("duration", outcome.Duration),
		zap.Int("trace_steps", len(steps)),
		zap.Int("warnings", len(warnings)),
	)
	metrics.ObserveExecution(req.Language, string(outcome.Status), outcome.Duration)
	return result, warnings, nil
}

// resolveAlgorithm maps an optional algorithm identifier to its traceable
// catalog entry. Unknown or untraceable identifiers degrade to the
// output-derived strategy with a warning rather than failing the request.
func (e *Engine) resolveAlgorithm(id string, warnings *[]string) *catalog.Algorithm {
	if id == "" {
		return nil
	}
	alg, ok := e.algs.Lookup(id)
	if !ok {
		*warnings = append(*warnings, fmt.Sprintf("unknown algorithm %q, trace derived from program output", id))
		return nil
	}
	if alg.Trace == nil {
		*warnings = append(*warnings, fmt.Sprintf("algorithm %q has no instrumented trace, trace derived from program output", id))
		return nil
	}
	return alg
}

// buildTrace runs the catalog's instrumented implementation. A panic inside
// it is contained here and reported as an error, keeping trace generation
// strictly non-fatal.
func (e *Engine) buildTrace(alg *catalog.Algorithm, input []float64) (steps []api.TraceStep, truncated bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("trace for %q panicked: %v", alg.ID, r)
		}
	}()
	rec := trace.NewRecorder(e.cfg.MaxTraceSteps)
	alg.Trace(rec, input)
	return rec.Steps(), rec.Truncated(), nil
}

// selectTrace applies the strategy policy. A synthetic trace wins whenever
// one was produced, and the caller is told it follows the catalog
// implementation rather than the submitted code. Otherwise steps derive
// from captured output, possibly ending up empty.
func (e *Engine) selectTrace(algID string, alg *catalog.Algorithm, synthetic []api.TraceStep, traceErr error, stdout string, warnings *[]string) []api.TraceStep {
	if alg != nil && traceErr == nil {
		*warnings = append(*warnings, fmt.Sprintf("trace follows the catalog implementation of %q, not the submitted code", algID))
		return synthetic
	}
	if traceErr != nil {
		e.logger.Warn("trace generation failed", zap.Error(traceErr))
		*warnings = append(*warnings, "trace generation failed, trace derived from program output")
	}
	return trace.FromOutput(stdout, e.cfg.MaxTraceSteps)
}

// traceInput decodes the request input for the synthetic strategy. Accepted
// shapes are a bare numeric array or an object carrying one under "values".
// Anything else falls back to the algorithm's default input with usable set
// to false.
func traceInput(raw json.RawMessage, fallback []float64) (values []float64, usable bool) {
	if len(raw) == 0 {
		return append([]float64(nil), fallback...), true
	}
	var arr []float64
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr, true
	}
	var obj struct {
		Values []float64 `json:"values"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Values != nil {
		return obj.Values, true
	}
	return append([]float64(nil), fallback...), false
}

// Benchmark times a catalog algorithm across the requested sizes, falling
// back to the configured default sizes when the request names none.
func (e *Engine) Benchmark(ctx context.Context, req api.BenchmarkRequest) (*api.BenchmarkSummary, *api.Error) {
	started := time.Now()

	if verr := api.ValidateBenchmarkRequest(&req, e.runners.Languages(), e.cfg.BenchLimits); verr != nil {
		e.logger.Info("benchmark rejected",
			zap.String("algorithm", req.AlgorithmID),
			zap.String("kind", string(verr.Kind)),
			zap.String("param", verr.Param),
		)
		return nil, verr
	}
	alg, ok := e.algs.Lookup(req.AlgorithmID)
	if !ok {
		return nil, api.NewValidationError("algorithmId",
			fmt.Sprintf("unknown algorithm %q", req.AlgorithmID))
	}

	notes := make([]string, 0, 1)
	sizes := req.Sizes
	if len(sizes) == 0 {
		sizes = e.cfg.DefaultSizes
		notes = append(notes, fmt.Sprintf("sizes defaulted to %v", sizes))
	}

	points, err := e.harness.Run(ctx, bench.Spec{
		Label: alg.ID,
		Sizes: sizes,
		Gen:   alg.GenInput,
		Fn:    alg.Run,
	})
	if err != nil {
		return nil, e.classifyBenchmarkError(err, time.Since(started))
	}

	summary := assembleSummary(xid.New().String(), alg, req.Language, points, notes)
	e.logger.Info("benchmark finished",
		zap.String("algorithm", alg.ID),
		zap.Ints("sizes", sizes),
		zap.Int("total_iterations", summary.TotalIterations),
		zap.Duration("duration", time.Since(started)),
	)
	metrics.ObserveBenchmark(alg.ID, time.Since(started))
	return summary, nil
}

func (e *Engine) classifyBenchmarkError(err error, elapsed time.Duration) *api.Error {
	var fault *bench.FaultError
	switch {
	case errors.As(err, &fault):
		e.logger.Warn("benchmark faulted", zap.Error(err))
		return api.NewRuntimeFaultError("panic", fault.Error())
	case errors.Is(err, context.DeadlineExceeded):
		e.logger.Info("benchmark timed out", zap.Duration("elapsed", elapsed))
		return api.NewTimeoutError(durationMs(elapsed))
	case errors.Is(err, context.Canceled):
		e.logger.Info("benchmark cancelled", zap.Duration("elapsed", elapsed))
		return api.NewInternalError("benchmark cancelled")
	default:
		e.logger.Error("benchmark failed", zap.Error(err))
		return api.NewInternalError("benchmark failed unexpectedly")
	}
}

// assembleSummary folds raw points into the wire summary: per-point averages
// plus min, max, and mean of those averages across sizes.
func assembleSummary(id string, alg *catalog.Algorithm, language string, points []bench.Point, notes []string) *api.BenchmarkSummary {
	summary := &api.BenchmarkSummary{
		ID:          id,
		Label:       alg.Name,
		AlgorithmID: alg.ID,
		Language:    language,
		CreatedAt:   time.Now().UTC(),
		Points:      make([]api.BenchmarkPoint, 0, len(points)),
	}
	if len(notes) > 0 {
		summary.Notes = notes
	}

	for i, p := range points {
		totalMs := durationMs(p.Total)
		avgMs := totalMs / float64(p.Iterations)
		summary.Points = append(summary.Points, api.BenchmarkPoint{
			InputSize:       p.Size,
			Iterations:      p.Iterations,
			TotalDurationMs: totalMs,
			AverageMs:       avgMs,
		})
		summary.TotalIterations += p.Iterations
		summary.TotalDurationMs += totalMs
		summary.AvgMs += avgMs
		if i == 0 || avgMs < summary.MinAvgMs {
			summary.MinAvgMs = avgMs
		}
		if i == 0 || avgMs > summary.MaxAvgMs {
			summary.MaxAvgMs = avgMs
		}
	}
	if len(points) > 0 {
		summary.AvgMs /= float64(len(points))
	}
	return summary
}
