package engine

import (
	"strings"
	"time"

	"github.com/algoviz/runbox/api"
	"github.com/algoviz/runbox/sandbox"
)

// resultFromOutcome maps a sandbox outcome onto the wire result, plus the
// classified error for runs that did not complete. Timed-out and faulted
// runs keep their partial output; the fault message is appended to stderr so
// the caller sees it as program output, not as a system error.
func resultFromOutcome(id string, oc sandbox.Outcome) (*api.ExecutionResult, *api.Error) {
	result := &api.ExecutionResult{
		ID:         id,
		Success:    oc.Status == sandbox.StatusCompleted,
		Stdout:     oc.Stdout,
		Stderr:     oc.Stderr,
		DurationMs: durationMs(oc.Duration),
	}

	switch oc.Status {
	case sandbox.StatusCompleted:
		return result, nil
	case sandbox.StatusTimedOut:
		result.Stderr = appendLine(result.Stderr, "execution timed out")
		return result, api.NewTimeoutError(result.DurationMs)
	case sandbox.StatusFaulted:
		fault := oc.Fault
		if fault == nil {
			fault = &sandbox.Fault{Kind: "unknown", Message: "program faulted"}
		}
		result.Stderr = appendLine(result.Stderr, fault.Message)
		return result, api.NewRuntimeFaultError(fault.Kind, fault.Message)
	default:
		return nil, api.NewInternalError("unrecognized execution status")
	}
}

// appendLine adds line to s as its own terminated line.
func appendLine(s, line string) string {
	if line == "" {
		return s
	}
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s + line + "\n"
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
