package api

import (
	"encoding/json"
	"time"
)

// ExecutionRequest is the body of an execute call: one program in one of the
// supported languages, optionally paired with a catalog algorithm identifier
// and an input value handed to the program.
type ExecutionRequest struct {
	Language    string          `json:"language"`
	Code        string          `json:"code"`
	AlgorithmID string          `json:"algorithmId,omitempty"`
	Input       json.RawMessage `json:"input,omitempty"`
}

// TraceStep is a single frame of a replayable visualization trace.
//
// Step numbers start at 1 and increase by exactly one with no gaps within a
// trace. ArraySnapshot, when present, is the full state of the visualized
// array at this step; every index in HighlightedIndices refers to a valid
// position in that snapshot.
type TraceStep struct {
	Step               int       `json:"step"`
	CurrentLine        int       `json:"currentLine"`
	Description        string    `json:"description"`
	ArraySnapshot      []float64 `json:"arraySnapshot,omitempty"`
	HighlightedIndices []int     `json:"highlightedIndices,omitempty"`
}

// ExecutionResult is the assembled outcome of one execute call. It is
// immutable once built: the engine constructs it in a single pass and no
// component mutates it afterwards. ID correlates the result with server logs.
type ExecutionResult struct {
	ID         string      `json:"id"`
	Success    bool        `json:"success"`
	Stdout     string      `json:"stdout"`
	Stderr     string      `json:"stderr"`
	DurationMs float64     `json:"durationMs"`
	Trace      []TraceStep `json:"trace"`
}

// ExecuteResponse is the envelope returned by the execute endpoint.
//
// OK reports whether the submitted program ran to completion. Execution-time
// failures (timeouts, uncaught exceptions) answer with OK false plus an error
// kind, and still carry the partial Result when one exists; transport-level
// status stays 200 for those, per the contract that "your code failed" is not
// "your request was malformed".
type ExecuteResponse struct {
	OK       bool             `json:"ok"`
	Result   *ExecutionResult `json:"result,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
	Error    string           `json:"error,omitempty"`
	Details  map[string]any   `json:"details,omitempty"`
}

// BenchmarkRequest asks for timing statistics of a catalog algorithm. Sizes
// overrides the configured default input sizes when present.
type BenchmarkRequest struct {
	AlgorithmID string `json:"algorithmId"`
	Language    string `json:"language"`
	Sizes       []int  `json:"sizes,omitempty"`
}

// BenchmarkPoint is the measurement for one input size. AverageMs is derived
// as TotalDurationMs / Iterations at assembly time.
type BenchmarkPoint struct {
	InputSize       int     `json:"inputSize"`
	Iterations      int     `json:"iterations"`
	TotalDurationMs float64 `json:"totalDurationMs"`
	AverageMs       float64 `json:"averageMs"`
}

// BenchmarkSummary aggregates the points of one benchmark invocation. A fresh
// summary is created per invocation and never mutated after it is returned.
type BenchmarkSummary struct {
	ID              string           `json:"id"`
	Label           string           `json:"label"`
	AlgorithmID     string           `json:"algorithmId"`
	Language        string           `json:"language"`
	CreatedAt       time.Time        `json:"createdAt"`
	Points          []BenchmarkPoint `json:"points"`
	TotalIterations int              `json:"totalIterations"`
	TotalDurationMs float64          `json:"totalDurationMs"`
	AvgMs           float64          `json:"avgMs"`
	MinAvgMs        float64          `json:"minAvgMs"`
	MaxAvgMs        float64          `json:"maxAvgMs"`
	Notes           []string         `json:"notes,omitempty"`
}

// BenchmarkResponse is the envelope returned by the benchmark endpoint.
type BenchmarkResponse struct {
	OK      bool              `json:"ok"`
	Result  *BenchmarkSummary `json:"result,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

// AlgorithmInfo describes one catalog entry for read-only listings.
type AlgorithmInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Complexity string `json:"complexity,omitempty"`
	Traceable  bool   `json:"traceable"`
}

// AlgorithmsResponse is the envelope returned by the algorithm listing endpoint.
type AlgorithmsResponse struct {
	OK         bool            `json:"ok"`
	Algorithms []AlgorithmInfo `json:"algorithms"`
}
