package sandbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRunner(t *testing.T, limits Limits) *JavaScriptRunner {
	t.Helper()
	return NewJavaScriptRunner(zaptest.NewLogger(t), limits)
}

func TestJavaScriptRunnerDefaults(t *testing.T) {
	runner := NewJavaScriptRunner(zaptest.NewLogger(t), Limits{})

	assert.Equal(t, LanguageJavaScript, runner.Language())
	assert.Equal(t, DefaultLimits(), runner.limits)
}

func TestJavaScriptHelloWorld(t *testing.T) {
	runner := newTestRunner(t, Limits{})

	outcome, err := runner.Run(context.Background(), Request{
		Language: LanguageJavaScript,
		Code:     "print('hi')",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, outcome.Status)
	assert.Equal(t, "hi\n", outcome.Stdout)
	assert.Empty(t, outcome.Stderr)
	assert.Nil(t, outcome.Fault)
	assert.Positive(t, outcome.Duration)
}

func TestJavaScriptConsoleStreams(t *testing.T) {
	runner := newTestRunner(t, Limits{})

	outcome, err := runner.Run(context.Background(), Request{
		Language: LanguageJavaScript,
		Code: `console.log('a');
console.info('b');
console.debug('c');
console.warn('w');
console.error('e');`,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, outcome.Status)
	assert.Equal(t, "a\nb\nc\n", outcome.Stdout)
	assert.Equal(t, "w\ne\n", outcome.Stderr)
}

func TestJavaScriptConsoleJoinsArguments(t *testing.T) {
	runner := newTestRunner(t, Limits{})

	outcome, err := runner.Run(context.Background(), Request{
		Language: LanguageJavaScript,
		Code:     "console.log('sum', 1 + 2, true)",
	})
	require.NoError(t, err)

	assert.Equal(t, "sum 3 true\n", outcome.Stdout)
}

func TestJavaScriptInputGlobal(t *testing.T) {
	runner := newTestRunner(t, Limits{})

	t.Run("input is bound", func(t *testing.T) {
		outcome, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "print(input.values.length, input.label)",
			Input:    json.RawMessage(`{"values":[3,1,2],"label":"demo"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, outcome.Status)
		assert.Equal(t, "3 demo\n", outcome.Stdout)
	})

	t.Run("absent input stays undefined", func(t *testing.T) {
		outcome, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "print(typeof input)",
		})
		require.NoError(t, err)
		assert.Equal(t, "undefined\n", outcome.Stdout)
	})

	t.Run("malformed input is a host error", func(t *testing.T) {
		_, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "print('never runs')",
			Input:    json.RawMessage(`{bad`),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode input")
	})
}

func TestJavaScriptTimeout(t *testing.T) {
	runner := newTestRunner(t, Limits{Timeout: 50 * time.Millisecond})

	outcome, err := runner.Run(context.Background(), Request{
		Language: LanguageJavaScript,
		Code:     "print('start'); while (true) {}",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusTimedOut, outcome.Status)
	assert.Nil(t, outcome.Fault)
	assert.Equal(t, "start\n", outcome.Stdout, "output before the deadline is preserved")
	assert.GreaterOrEqual(t, outcome.Duration, 50*time.Millisecond)
	assert.Less(t, outcome.Duration, 5*time.Second, "the interrupt must land promptly")
}

func TestJavaScriptCancelledContext(t *testing.T) {
	runner := newTestRunner(t, Limits{Timeout: time.Minute})

	t.Run("cancelled before the run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := runner.Run(ctx, Request{
			Language: LanguageJavaScript,
			Code:     "while (true) {}",
		})
		require.Error(t, err, "caller cancellation is not a verdict about the program")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancelled mid run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(30 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		_, err := runner.Run(ctx, Request{
			Language: LanguageJavaScript,
			Code:     "while (true) {}",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Minute, "cancellation must preempt the loop, not wait out the budget")
	})
}

func TestJavaScriptUncaughtException(t *testing.T) {
	runner := newTestRunner(t, Limits{})

	t.Run("thrown error", func(t *testing.T) {
		outcome, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "print('before'); throw new Error('boom')",
		})
		require.NoError(t, err)

		assert.Equal(t, StatusFaulted, outcome.Status)
		require.NotNil(t, outcome.Fault)
		assert.Equal(t, FaultUncaughtException, outcome.Fault.Kind)
		assert.Contains(t, outcome.Fault.Message, "boom")
		assert.Equal(t, "before\n", outcome.Stdout)
	})

	t.Run("reference error", func(t *testing.T) {
		outcome, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "nosuchfn()",
		})
		require.NoError(t, err)

		assert.Equal(t, StatusFaulted, outcome.Status)
		require.NotNil(t, outcome.Fault)
		assert.Equal(t, FaultUncaughtException, outcome.Fault.Kind)
		assert.Contains(t, outcome.Fault.Message, "nosuchfn is not defined")
	})

	t.Run("huge thrown value is clamped", func(t *testing.T) {
		outcome, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "var s = 'x'; while (s.length < 500000) { s += s } throw s",
		})
		require.NoError(t, err)

		assert.Equal(t, StatusFaulted, outcome.Status)
		require.NotNil(t, outcome.Fault)
		assert.Equal(t, FaultUncaughtException, outcome.Fault.Kind)
		assert.LessOrEqual(t, len(outcome.Fault.Message), maxFaultMessageBytes+len("..."))
	})

	t.Run("multi line thrown value keeps its first line", func(t *testing.T) {
		outcome, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     `throw "first\nsecond"`,
		})
		require.NoError(t, err)

		require.NotNil(t, outcome.Fault)
		assert.Equal(t, "first", outcome.Fault.Message)
	})

	t.Run("throwing toString stays a guest fault", func(t *testing.T) {
		outcome, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "throw { toString: function () { throw 'nested' } }",
		})
		require.NoError(t, err)

		assert.Equal(t, StatusFaulted, outcome.Status)
		require.NotNil(t, outcome.Fault)
		assert.Equal(t, FaultUncaughtException, outcome.Fault.Kind)
		assert.NotEmpty(t, outcome.Fault.Message)
	})
}

func TestJavaScriptSyntaxError(t *testing.T) {
	runner := newTestRunner(t, Limits{})

	outcome, err := runner.Run(context.Background(), Request{
		Language: LanguageJavaScript,
		Code:     "function (",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusFaulted, outcome.Status)
	require.NotNil(t, outcome.Fault)
	assert.Equal(t, FaultSyntaxError, outcome.Fault.Kind)
	assert.Contains(t, outcome.Fault.Message, "SyntaxError")
	assert.NotContains(t, outcome.Fault.Message, "\n")
	assert.Empty(t, outcome.Stdout)
}

func TestJavaScriptStackOverflow(t *testing.T) {
	runner := newTestRunner(t, Limits{MaxCallStack: 64})

	outcome, err := runner.Run(context.Background(), Request{
		Language: LanguageJavaScript,
		Code:     "function f() { return 1 + f(); } f();",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusFaulted, outcome.Status)
	require.NotNil(t, outcome.Fault)
	assert.Equal(t, FaultStackOverflow, outcome.Fault.Kind)
}

func TestJavaScriptOutputLimit(t *testing.T) {
	t.Run("looping writer is preempted", func(t *testing.T) {
		runner := newTestRunner(t, Limits{MaxOutputBytes: 100})

		outcome, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "while (true) { print('xxxxxxxxxx') }",
		})
		require.NoError(t, err)

		assert.Equal(t, StatusFaulted, outcome.Status)
		require.NotNil(t, outcome.Fault)
		assert.Equal(t, FaultOutputLimit, outcome.Fault.Kind)
		assert.Contains(t, outcome.Fault.Message, "100 bytes")
		assert.LessOrEqual(t, len(outcome.Stdout)+len(outcome.Stderr), 100)
	})

	t.Run("single oversized write is clamped", func(t *testing.T) {
		runner := newTestRunner(t, Limits{MaxOutputBytes: 100})

		outcome, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "var s = ''; for (var i = 0; i < 200; i++) { s += 'x' } print(s)",
		})
		require.NoError(t, err)

		assert.Equal(t, StatusFaulted, outcome.Status)
		require.NotNil(t, outcome.Fault)
		assert.Equal(t, FaultOutputLimit, outcome.Fault.Kind)
		assert.Len(t, outcome.Stdout, 100)
	})
}

func TestJavaScriptIsolation(t *testing.T) {
	runner := newTestRunner(t, Limits{})

	t.Run("no host bindings", func(t *testing.T) {
		outcome, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "print(typeof require, typeof process, typeof fetch)",
		})
		require.NoError(t, err)
		assert.Equal(t, "undefined undefined undefined\n", outcome.Stdout)
	})

	t.Run("globals do not leak between runs", func(t *testing.T) {
		first, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "var leak = 42; print('set')",
		})
		require.NoError(t, err)
		require.Equal(t, StatusCompleted, first.Status)

		second, err := runner.Run(context.Background(), Request{
			Language: LanguageJavaScript,
			Code:     "print(typeof leak)",
		})
		require.NoError(t, err)
		assert.Equal(t, "undefined\n", second.Stdout)
	})
}

func TestJavaScriptRepeatedRunsAgree(t *testing.T) {
	runner := newTestRunner(t, Limits{})
	req := Request{
		Language: LanguageJavaScript,
		Code:     "var total = 0; for (var i = 1; i <= 10; i++) { total += i } print(total)",
	}

	for i := 0; i < 3; i++ {
		outcome, err := runner.Run(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, outcome.Status)
		assert.Equal(t, "55\n", outcome.Stdout)
	}
}
