package api

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Limits bounds the accepted size of an execution request. The values come
// from configuration; DefaultLimits mirrors the config defaults for callers
// using the package directly.
type Limits struct {
	MaxSourceBytes int
	MaxInputBytes  int
}

// BenchmarkLimits bounds the accepted shape of a benchmark request.
type BenchmarkLimits struct {
	MaxSizes     int
	MaxInputSize int
}

// DefaultLimits returns the request limits used when no configuration is
// supplied.
func DefaultLimits() Limits {
	return Limits{
		MaxSourceBytes: 128 << 10,
		MaxInputBytes:  64 << 10,
	}
}

// DefaultBenchmarkLimits returns the benchmark request limits used when no
// configuration is supplied.
func DefaultBenchmarkLimits() BenchmarkLimits {
	return BenchmarkLimits{
		MaxSizes:     16,
		MaxInputSize: 8192,
	}
}

// ValidateExecutionRequest checks an execute request against the supported
// language set and size limits. It returns nil when the request is
// acceptable. Validation happens before any execution resource is spent.
func ValidateExecutionRequest(req *ExecutionRequest, supported []string, lim Limits) *Error {
	if req.Language == "" {
		return NewValidationError("language", "language must not be empty")
	}
	if !slices.Contains(supported, req.Language) {
		return NewUnsupportedLanguageError(req.Language, supported)
	}
	if req.Code == "" {
		return NewValidationError("code", "code must not be empty")
	}
	if lim.MaxSourceBytes > 0 && len(req.Code) > lim.MaxSourceBytes {
		return NewValidationError("code",
			fmt.Sprintf("source exceeds the %d byte limit", lim.MaxSourceBytes))
	}
	if len(req.Input) > 0 {
		if lim.MaxInputBytes > 0 && len(req.Input) > lim.MaxInputBytes {
			return NewValidationError("input",
				fmt.Sprintf("input exceeds the %d byte limit", lim.MaxInputBytes))
		}
		if !json.Valid(req.Input) {
			return NewValidationError("input", "input is not valid JSON")
		}
	}
	return nil
}

// ValidateBenchmarkRequest checks a benchmark request against the supported
// language set and size limits. The algorithm identifier itself is resolved
// by the engine against the catalog; this only checks shape.
func ValidateBenchmarkRequest(req *BenchmarkRequest, supported []string, lim BenchmarkLimits) *Error {
	if req.AlgorithmID == "" {
		return NewValidationError("algorithmId", "algorithmId must not be empty")
	}
	if req.Language == "" {
		return NewValidationError("language", "language must not be empty")
	}
	if !slices.Contains(supported, req.Language) {
		return NewUnsupportedLanguageError(req.Language, supported)
	}
	if lim.MaxSizes > 0 && len(req.Sizes) > lim.MaxSizes {
		return NewValidationError("sizes",
			fmt.Sprintf("at most %d input sizes are accepted", lim.MaxSizes))
	}
	for _, size := range req.Sizes {
		if size <= 0 {
			return NewValidationError("sizes", "input sizes must be positive")
		}
		if lim.MaxInputSize > 0 && size > lim.MaxInputSize {
			return NewValidationError("sizes",
				fmt.Sprintf("input sizes are capped at %d", lim.MaxInputSize))
		}
	}
	return nil
}
