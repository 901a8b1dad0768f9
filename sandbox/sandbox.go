package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Language identifiers accepted by runners.
const (
	LanguageJavaScript = "javascript"
)

// ErrUnsupportedLanguage is returned by the registry for languages without a
// runner.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Status classifies how a run ended.
type Status string

// Run outcomes.
const (
	// StatusCompleted means the program ran to its natural end.
	StatusCompleted Status = "completed"
	// StatusTimedOut means the wall-clock limit preempted the program.
	StatusTimedOut Status = "timed_out"
	// StatusFaulted means the program was stopped by its own defect.
	StatusFaulted Status = "faulted"
)

// Fault kind identifiers.
const (
	FaultSyntaxError       = "syntax_error"
	FaultUncaughtException = "uncaught_exception"
	FaultStackOverflow     = "stack_overflow"
	FaultOutputLimit       = "output_limit"
)

// Fault describes why a run ended with StatusFaulted. Message is safe to
// return to clients: it carries only what the guest program itself produced,
// never host paths or interpreter internals.
type Fault struct {
	Kind    string
	Message string
}

// Request carries one guest program.
type Request struct {
	Language string
	Code     string
	// Input is optional JSON made available to the program as the global
	// "input" value.
	Input json.RawMessage
}

// Outcome is the observable result of one run. Stdout and Stderr hold
// whatever the program wrote before it ended, including partial output from
// timed-out or faulted runs. Fault is set exactly when Status is
// StatusFaulted.
type Outcome struct {
	Status   Status
	Stdout   string
	Stderr   string
	Duration time.Duration
	Fault    *Fault
}

// Runner executes guest programs for a single language. Implementations must
// be safe for concurrent use and must never let a guest program crash the
// host process.
type Runner interface {
	Language() string
	Run(ctx context.Context, req Request) (Outcome, error)
}

// Limits bounds every run.
type Limits struct {
	// Timeout is the wall-clock budget for one run.
	Timeout time.Duration
	// MaxOutputBytes caps combined stdout and stderr. Exceeding it is an
	// output_limit fault.
	MaxOutputBytes int
	// MaxCallStack caps interpreter call depth so runaway recursion
	// surfaces as a stack_overflow fault instead of exhausting the host
	// stack.
	MaxCallStack int
}

// DefaultLimits returns the limits used when configuration has no opinion.
func DefaultLimits() Limits {
	return Limits{
		Timeout:        2 * time.Second,
		MaxOutputBytes: 256 * 1024,
		MaxCallStack:   2048,
	}
}

func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.Timeout <= 0 {
		l.Timeout = def.Timeout
	}
	if l.MaxOutputBytes <= 0 {
		l.MaxOutputBytes = def.MaxOutputBytes
	}
	if l.MaxCallStack <= 0 {
		l.MaxCallStack = def.MaxCallStack
	}
	return l
}
