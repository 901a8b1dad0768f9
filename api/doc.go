// Package api defines the wire contract shared by every transport.
//
// The api package holds the JSON request/response types for code execution
// and benchmarking, the trace step format consumed by visualizers, the typed
// error taxonomy, and request validation. It has no dependencies on the rest
// of the application so that transports, the engine, and external callers can
// all agree on one vocabulary.
//
// Usage:
//
//	req := api.ExecutionRequest{Language: "javascript", Code: `print("hi")`}
//	if apiErr := api.ValidateExecutionRequest(&req, []string{"javascript"}, api.DefaultLimits()); apiErr != nil {
//	    // apiErr.HTTPStatus() tells the transport how to answer
//	}
package api
