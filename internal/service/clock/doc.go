// Package clock runs the clock display loop.
//
// Every render interval the loop refreshes network time, renders HH:MM:SS
// and, every ReconcileEvery iterations, checks the DST rule and pushes a new
// UTC offset to the time source when it changed. The loop owns the applied
// offset; other goroutines only read cloned snapshots.
package clock
