// Package clock contains the domain types shared by the clock loop and the
// status API.
//
// Snapshot is the state of the clock after one loop iteration; Clone keeps
// readers from sharing it with the loop.
package clock
