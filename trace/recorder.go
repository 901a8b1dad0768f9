package trace

import (
	"github.com/algoviz/runbox/api"
)

// Recorder accumulates trace steps with contiguous numbering. It is not safe
// for concurrent use; synthetic traces are emitted in a single sequential
// pass per request.
type Recorder struct {
	steps     []api.TraceStep
	maxSteps  int
	truncated bool
}

// NewRecorder creates a Recorder that stops recording after maxSteps steps.
// A non-positive maxSteps removes the cap.
func NewRecorder(maxSteps int) *Recorder {
	return &Recorder{maxSteps: maxSteps}
}

// Snapshot appends a step carrying the current array state. The snapshot is
// copied so later mutation by the caller cannot alter recorded history.
// Highlight indices outside the snapshot are dropped, which keeps the
// index-validity invariant true by construction.
func (r *Recorder) Snapshot(line int, description string, snapshot []float64, highlights ...int) {
	if r.full() {
		return
	}

	snap := make([]float64, len(snapshot))
	copy(snap, snapshot)

	var kept []int
	seen := make(map[int]bool, len(highlights))
	for _, idx := range highlights {
		if idx < 0 || idx >= len(snap) || seen[idx] {
			continue
		}
		seen[idx] = true
		kept = append(kept, idx)
	}

	r.steps = append(r.steps, api.TraceStep{
		Step:               len(r.steps) + 1,
		CurrentLine:        line,
		Description:        description,
		ArraySnapshot:      snap,
		HighlightedIndices: kept,
	})
}

// Note appends a step without array state, for narration such as loop
// boundaries or a final summary.
func (r *Recorder) Note(line int, description string) {
	if r.full() {
		return
	}
	r.steps = append(r.steps, api.TraceStep{
		Step:        len(r.steps) + 1,
		CurrentLine: line,
		Description: description,
	})
}

// Steps returns the recorded steps. The returned slice is the recorder's
// backing store; callers treat a finished trace as immutable.
func (r *Recorder) Steps() []api.TraceStep {
	return r.steps
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int {
	return len(r.steps)
}

// Truncated reports whether the step cap cut the trace short.
func (r *Recorder) Truncated() bool {
	return r.truncated
}

func (r *Recorder) full() bool {
	if r.maxSteps > 0 && len(r.steps) >= r.maxSteps {
		r.truncated = true
		return true
	}
	return false
}
