// Package clock implements the gRPC status API of the clock.
//
// The service is described by hand over protobuf well-known types: the
// request is google.protobuf.Empty and the response a google.protobuf.Struct
// built from the domain Snapshot, so no generated code is required.
package clock
