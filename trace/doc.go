// Package trace builds replayable visualization traces.
//
// The trace package provides the Recorder used by trusted reference
// implementations to emit one step per meaningful operation, and the
// output-derived fallback that turns captured stdout into coarse steps when
// no reference implementation applies. Both paths guarantee the trace
// contract: step numbers run 1..N with no gaps, snapshots are copied, and
// highlighted indices always point inside their snapshot.
//
// Usage:
//
//	rec := trace.NewRecorder(2000)
//	rec.Snapshot(3, "compare 5 and 1", []float64{5, 1, 4, 2}, 0, 1)
//	steps := rec.Steps()
package trace
