// Package bench measures the running time of pure in-process routines across
// a range of input sizes.
//
// Each size is sampled adaptively: after a fixed number of warmup calls the
// harness repeats the routine until a minimum cumulative sample time is
// reached or an iteration cap is hit, whichever comes first. Input generation
// and the per-iteration scratch copy happen outside the timed window, so a
// point reflects only the routine itself.
//
// Usage:
//
//	h := bench.New(logger, bench.DefaultConfig())
//	points, err := h.Run(ctx, bench.Spec{
//		Label: "bubble-sort",
//		Sizes: []int{64, 128, 256},
//		Gen:   gen,
//		Fn:    run,
//	})
package bench
