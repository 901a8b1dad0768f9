// Package catalog is the read-only registry of reference algorithms.
//
// The catalog maps algorithm identifiers to trusted, pre-vetted
// implementations together with a recommended default input and a sized
// input generator. The trace emitter uses the catalog to derive synthetic
// traces that do not depend on user-submitted code being well-formed, and
// the benchmark harness measures the same implementations so that timing
// data stays comparable across runs.
//
// The registry is assembled once at startup and never mutated afterwards;
// lookups are safe from any goroutine.
//
// Usage:
//
//	reg := catalog.New()
//	alg, ok := reg.Lookup("bubble-sort")
//	if ok && alg.Trace != nil {
//	    rec := trace.NewRecorder(2000)
//	    alg.Trace(rec, alg.DefaultInput)
//	}
package catalog
