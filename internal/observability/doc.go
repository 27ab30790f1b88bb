// Package observability holds the Prometheus metrics of the clock and the
// HTTP server exposing them next to liveness and readiness probes.
package observability
