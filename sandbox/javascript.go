package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// programName is the virtual filename guest code is compiled under. It is the
// only path that can ever appear in messages returned to clients.
const programName = "program.js"

// errOutputLimit is the interrupt value used to preempt a program that
// exhausted its output budget.
var errOutputLimit = errors.New("output limit exceeded")

// maxFaultMessageBytes caps fault text surfaced to clients. A thrown value
// is arbitrary program data and does not count against the output budget,
// so it is clamped on its own.
const maxFaultMessageBytes = 512

// JavaScriptRunner executes guest programs on the goja interpreter. Every run
// gets a fresh interpreter with only console, print, and the optional input
// global bound, so programs cannot reach the file system, the network, or
// each other's state.
type JavaScriptRunner struct {
	logger *zap.Logger
	limits Limits
}

// NewJavaScriptRunner creates a runner with the given limits. Non-positive
// limit fields fall back to DefaultLimits.
func NewJavaScriptRunner(logger *zap.Logger, limits Limits) *JavaScriptRunner {
	return &JavaScriptRunner{
		logger: logger,
		limits: limits.withDefaults(),
	}
}

// Language returns the identifier this runner serves.
func (*JavaScriptRunner) Language() string {
	return LanguageJavaScript
}

// Run compiles and executes one program. Guest defects come back as a
// faulted or timed-out Outcome with a nil error; the error return is
// reserved for host-side failures and caller cancellation. Only the
// runner's own deadline produces the timed-out status.
func (r *JavaScriptRunner) Run(ctx context.Context, req Request) (outcome Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("interpreter panic", zap.Any("panic", rec))
			outcome = Outcome{}
			err = fmt.Errorf("interpreter panic: %v", rec)
		}
	}()

	start := time.Now()

	program, compileErr := goja.Compile(programName, req.Code, false)
	if compileErr != nil {
		return Outcome{
			Status:   StatusFaulted,
			Duration: time.Since(start),
			Fault:    &Fault{Kind: FaultSyntaxError, Message: faultMessage(compileErr.Error())},
		}, nil
	}

	vm := goja.New()
	vm.SetMaxCallStackSize(r.limits.MaxCallStack)

	out := newOutputBuffer(r.limits.MaxOutputBytes, func() {
		vm.Interrupt(errOutputLimit)
	})
	if bindErr := installGlobals(vm, out, req.Input); bindErr != nil {
		return Outcome{}, bindErr
	}

	runCtx, cancel := context.WithTimeout(ctx, r.limits.Timeout)
	defer cancel()

	watchdogDone := make(chan struct{})
	go func() {
		select {
		case <-runCtx.Done():
			vm.Interrupt(runCtx.Err())
		case <-watchdogDone:
		}
	}()

	_, runErr := vm.RunProgram(program)
	close(watchdogDone)

	outcome = Outcome{
		Stdout:   out.stdout.String(),
		Stderr:   out.stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case out.clipped:
		outcome.Status = StatusFaulted
		outcome.Fault = &Fault{
			Kind:    FaultOutputLimit,
			Message: fmt.Sprintf("combined output exceeded %d bytes", r.limits.MaxOutputBytes),
		}
	case runErr == nil:
		outcome.Status = StatusCompleted
	default:
		switch ex := runErr.(type) {
		case *goja.InterruptedError:
			// The watchdog also interrupts when the caller gives up. That
			// is not a verdict about the program, so it propagates as an
			// error instead of the timed-out status.
			if cause := ctx.Err(); cause != nil {
				return Outcome{}, fmt.Errorf("execution cancelled: %w", cause)
			}
			outcome.Status = StatusTimedOut
		case *goja.StackOverflowError:
			outcome.Status = StatusFaulted
			outcome.Fault = &Fault{Kind: FaultStackOverflow, Message: "maximum call stack size exceeded"}
		case *goja.Exception:
			outcome.Status = StatusFaulted
			outcome.Fault = &Fault{Kind: FaultUncaughtException, Message: faultMessage(exceptionText(ex))}
		default:
			return Outcome{}, fmt.Errorf("failed to run program: %w", runErr)
		}
	}

	r.logger.Debug("program finished",
		zap.String("status", string(outcome.Status)),
		zap.Duration("duration", outcome.Duration),
		zap.Int("stdout_bytes", len(outcome.Stdout)),
		zap.Int("stderr_bytes", len(outcome.Stderr)),
	)
	return outcome, nil
}

// installGlobals binds the only host facilities a program may touch:
// console.log/info/debug to stdout, console.warn/error to stderr, print as
// an alias for console.log, and the decoded input value when one was given.
func installGlobals(vm *goja.Runtime, out *outputBuffer, input json.RawMessage) error {
	console := vm.NewObject()
	stdout := out.printer(&out.stdout)
	stderr := out.printer(&out.stderr)

	bindings := map[string]func(goja.FunctionCall) goja.Value{
		"log":   stdout,
		"info":  stdout,
		"debug": stdout,
		"warn":  stderr,
		"error": stderr,
	}
	for name, fn := range bindings {
		if err := console.Set(name, fn); err != nil {
			return fmt.Errorf("failed to bind console.%s: %w", name, err)
		}
	}
	if err := vm.Set("console", console); err != nil {
		return fmt.Errorf("failed to bind console: %w", err)
	}
	if err := vm.Set("print", stdout); err != nil {
		return fmt.Errorf("failed to bind print: %w", err)
	}

	if len(input) > 0 {
		var decoded any
		if err := json.Unmarshal(input, &decoded); err != nil {
			return fmt.Errorf("failed to decode input: %w", err)
		}
		if err := vm.Set("input", decoded); err != nil {
			return fmt.Errorf("failed to bind input: %w", err)
		}
	}
	return nil
}

// faultMessage reduces fault text to its first line, capped at
// maxFaultMessageBytes. Compiler and exception messages reference only the
// virtual program name, never a host path.
func faultMessage(msg string) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	msg = strings.TrimSpace(msg)
	if len(msg) > maxFaultMessageBytes {
		msg = msg[:maxFaultMessageBytes] + "..."
	}
	return msg
}

// exceptionText renders a thrown value. String conversion of an object runs
// its guest toString, which may itself throw or be interrupted; that panic
// is contained here so the fault stays a guest fault.
func exceptionText(ex *goja.Exception) (msg string) {
	defer func() {
		if recover() != nil {
			msg = "uncaught exception with an unprintable thrown value"
		}
	}()
	return ex.Value().String()
}

// outputBuffer accumulates guest output under a shared byte budget. All
// writes happen on the interpreter goroutine, so no locking is needed. When
// the budget runs out the current write is clamped and the interrupt
// callback preempts the program at its next instruction.
type outputBuffer struct {
	stdout    strings.Builder
	stderr    strings.Builder
	limit     int
	used      int
	clipped   bool
	interrupt func()
}

func newOutputBuffer(limit int, interrupt func()) *outputBuffer {
	return &outputBuffer{limit: limit, interrupt: interrupt}
}

func (b *outputBuffer) write(dst *strings.Builder, line string) {
	if b.clipped {
		return
	}
	if remaining := b.limit - b.used; len(line) > remaining {
		line = line[:remaining]
		b.clipped = true
	}
	dst.WriteString(line)
	b.used += len(line)
	if b.clipped {
		b.interrupt()
	}
}

// printer adapts a destination stream to a console-style native function:
// arguments are stringified, joined with spaces, and terminated with a
// newline.
func (b *outputBuffer) printer(dst *strings.Builder) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}
		b.write(dst, strings.Join(parts, " ")+"\n")
		return goja.Undefined()
	}
}
