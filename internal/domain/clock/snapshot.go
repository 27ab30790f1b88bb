package clock

import (
	"time"

	"github.com/oshokin/dst-clock/internal/dst"
)

// SyncInfo describes the last successful network time query.
type SyncInfo struct {
	// Server is the queried NTP host.
	Server string
	// At is when the query completed.
	At time.Time
	// ClockOffset is server time minus local time.
	ClockOffset time.Duration
}

// Clone returns a copy of the sync info.
func (s *SyncInfo) Clone() *SyncInfo {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}

// Snapshot is the clock state after one loop iteration.
type Snapshot struct {
	// Timestamp is when the snapshot was taken.
	Timestamp time.Time
	// Display is the last string rendered, empty until the first render.
	Display string
	// EpochSeconds is the UTC epoch the iteration used.
	EpochSeconds int64
	// Offset is the applied UTC offset.
	Offset dst.Offset
	// DSTActive reports whether daylight saving time is applied.
	DSTActive bool
	// NextTransition is the next rule change, UTC.
	NextTransition time.Time
	// LastSync is nil until the first successful query.
	LastSync *SyncInfo
	// Reconciliations counts DST checks.
	Reconciliations int
	// OffsetChanges counts applied offset changes.
	OffsetChanges int
	// SkippedRenders counts ticks whose time string was malformed.
	SkippedRenders int
}

// Mode returns the steady state of the applied offset.
func (s *Snapshot) Mode() dst.Mode {
	return s.Offset.Mode()
}

// Synced reports whether the network time was queried successfully at least once.
func (s *Snapshot) Synced() bool {
	return s.LastSync != nil
}

// Clone returns a copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	cloned := *s
	cloned.LastSync = s.LastSync.Clone()

	return &cloned
}
