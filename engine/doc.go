// Package engine orchestrates sandboxed execution, trace derivation, and
// benchmarking behind the transport layers.
//
// Execute validates a request, runs the submitted program in the language
// sandbox, and attaches a visualization trace, preferring the catalog's
// instrumented implementation when the request names one. Benchmark times
// catalog implementations across input sizes through the bench harness.
// Every call builds its own state; the engine holds only immutable
// collaborators and is safe for concurrent use.
//
// Usage:
//
//	eng := engine.New(logger, runners, algorithms, harness, engine.DefaultConfig())
//	result, warnings, apiErr := eng.Execute(ctx, req)
package engine
