// Package common holds helpers shared by several services.
//
// It provides a gRPC client for the clock status API with call timeouts and
// detection of the local hostname reported by the status server.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
