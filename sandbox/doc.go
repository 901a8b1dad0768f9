// Package sandbox runs untrusted guest programs inside the host process.
//
// A Runner executes one program in a fresh, isolated interpreter with no file
// system, network, or process access. Every run is bounded by a wall-clock
// timeout, a call stack depth limit, and an output byte budget, and the host
// process survives whatever the guest does. Runs share no state: globals set
// by one program are never visible to the next.
//
// The Registry maps language identifiers to runners and is the only way
// callers obtain one.
//
// Usage:
//
//	reg := sandbox.NewRegistry(logger, sandbox.DefaultLimits())
//	runner, err := reg.Get("javascript")
//	outcome, err := runner.Run(ctx, sandbox.Request{
//	    Language: "javascript",
//	    Code:     "console.log('hello')",
//	})
package sandbox
