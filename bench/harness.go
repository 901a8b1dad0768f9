package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Config controls how each size is sampled.
type Config struct {
	// Warmup is the number of untimed calls before sampling starts.
	Warmup int
	// MinSampleTime is the cumulative measured time a point must reach
	// before sampling stops. Zero means a single timed iteration.
	MinSampleTime time.Duration
	// MaxIterations caps the timed iterations per point so fast routines
	// on tiny inputs cannot loop unbounded.
	MaxIterations int
}

// DefaultConfig returns the sampling parameters used when the caller has no
// opinion: 3 warmup calls, 100ms minimum sample, 10000 iteration cap.
func DefaultConfig() Config {
	return Config{
		Warmup:        3,
		MinSampleTime: 100 * time.Millisecond,
		MaxIterations: 10000,
	}
}

// Spec describes one routine to measure.
type Spec struct {
	// Label identifies the routine in errors and logs.
	Label string
	// Sizes are the input sizes to sample, one point each.
	Sizes []int
	// Gen builds an input of the given size. It runs once per size,
	// outside the timed window.
	Gen func(size int) []float64
	// Fn is the routine under measurement. It receives a scratch copy of
	// the generated input on every call and may mutate it freely.
	Fn func(input []float64)
}

// Point is the measurement for a single input size.
type Point struct {
	Size       int
	Iterations int
	Total      time.Duration
}

// Average returns the mean duration of one iteration.
func (p Point) Average() time.Duration {
	if p.Iterations == 0 {
		return 0
	}
	return p.Total / time.Duration(p.Iterations)
}

// FaultError reports a panic escaping the routine under measurement. The
// harness stops at the first fault; points gathered so far are discarded.
type FaultError struct {
	Label string
	Size  int
	Value any
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("benchmark %q panicked at size %d: %v", e.Label, e.Size, e.Value)
}

// Harness runs benchmark specs with a shared sampling configuration.
type Harness struct {
	logger *zap.Logger
	cfg    Config
}

// New creates a harness. Non-positive config fields fall back to the minimum
// that keeps every point meaningful: at least one timed iteration, no
// negative warmup.
func New(logger *zap.Logger, cfg Config) *Harness {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Warmup < 0 {
		cfg.Warmup = 0
	}
	if cfg.MinSampleTime < 0 {
		cfg.MinSampleTime = 0
	}
	if cfg.MaxIterations < 1 {
		cfg.MaxIterations = 1
	}
	return &Harness{logger: logger, cfg: cfg}
}

// Run measures spec.Fn at every size in spec.Sizes, in order. It returns one
// point per size, or the first error: a FaultError if the routine panicked,
// or the context error if the caller gave up. A partial run never returns
// partial points.
func (h *Harness) Run(ctx context.Context, spec Spec) ([]Point, error) {
	if spec.Gen == nil || spec.Fn == nil {
		return nil, errors.New("bench: spec requires both Gen and Fn")
	}
	if len(spec.Sizes) == 0 {
		return nil, errors.New("bench: spec requires at least one size")
	}

	points := make([]Point, 0, len(spec.Sizes))
	for _, size := range spec.Sizes {
		point, err := h.measure(ctx, spec, size)
		if err != nil {
			return nil, err
		}
		h.logger.Debug("benchmark point measured",
			zap.String("label", spec.Label),
			zap.Int("size", point.Size),
			zap.Int("iterations", point.Iterations),
			zap.Duration("total", point.Total),
		)
		points = append(points, point)
	}
	return points, nil
}

func (h *Harness) measure(ctx context.Context, spec Spec, size int) (Point, error) {
	input := spec.Gen(size)
	scratch := make([]float64, len(input))

	runOnce := func() (elapsed time.Duration, err error) {
		copy(scratch, input)
		defer func() {
			if r := recover(); r != nil {
				err = &FaultError{Label: spec.Label, Size: size, Value: r}
			}
		}()
		start := time.Now()
		spec.Fn(scratch)
		return time.Since(start), nil
	}

	for i := 0; i < h.cfg.Warmup; i++ {
		if err := ctx.Err(); err != nil {
			return Point{}, err
		}
		if _, err := runOnce(); err != nil {
			return Point{}, err
		}
	}

	point := Point{Size: size}
	for point.Iterations == 0 || (point.Total < h.cfg.MinSampleTime && point.Iterations < h.cfg.MaxIterations) {
		if err := ctx.Err(); err != nil {
			return Point{}, err
		}
		elapsed, err := runOnce()
		if err != nil {
			return Point{}, err
		}
		point.Total += elapsed
		point.Iterations++
	}
	return point, nil
}
