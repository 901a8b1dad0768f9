// Package httpserver provides the REST transport for the execution engine.
//
// The httpserver package exposes program execution, benchmarking, and the
// algorithm catalog over HTTP with JSON envelopes. Execution-time failures
// such as timeouts answer with status 200 and an ok:false envelope; only
// malformed requests produce 4xx and only host-side faults produce 5xx.
//
// Usage:
//
//	srv := httpserver.New(logger, eng, httpserver.DefaultConfig())
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Shutdown(context.Background())
package httpserver
