// Package status serves the clock status gRPC API.
package status
