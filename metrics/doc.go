// Package metrics exposes the service's Prometheus collectors.
//
// Collectors register themselves on the default registry at package load.
// The engine records execution and benchmark observations through the
// Observe helpers; HTTP traffic is instrumented by wrapping handlers with
// Middleware and scraped through Handler.
package metrics
