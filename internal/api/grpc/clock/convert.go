package clock

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/dst-clock/internal/domain/clock"
	"github.com/oshokin/dst-clock/internal/dst"
)

// Field names of the state struct.
const (
	FieldHost            = "host"
	FieldTimestamp       = "timestamp"
	FieldDisplay         = "display"
	FieldEpochSeconds    = "epoch_seconds"
	FieldOffsetSeconds   = "offset_seconds"
	FieldOffset          = "offset"
	FieldMode            = "mode"
	FieldDSTActive       = "dst_active"
	FieldNextTransition  = "next_transition"
	FieldNTPServer       = "ntp_server"
	FieldLastSync        = "last_sync"
	FieldNTPClockOffset  = "ntp_clock_offset_ms"
	FieldReconciliations = "reconciliations"
	FieldOffsetChanges   = "offset_changes"
	FieldSkippedRenders  = "skipped_renders"
)

// errNilState is returned when decoding a nil struct.
var errNilState = errors.New("clock state is nil")

// ToStruct encodes a snapshot as a protobuf Struct.
func ToStruct(snapshot *domain.Snapshot, host string) (*structpb.Struct, error) {
	fields := map[string]any{
		FieldHost:            host,
		FieldTimestamp:       formatTime(snapshot.Timestamp),
		FieldDisplay:         snapshot.Display,
		FieldEpochSeconds:    snapshot.EpochSeconds,
		FieldOffsetSeconds:   snapshot.Offset.Seconds(),
		FieldOffset:          snapshot.Offset.String(),
		FieldMode:            string(snapshot.Mode()),
		FieldDSTActive:       snapshot.DSTActive,
		FieldNextTransition:  formatTime(snapshot.NextTransition),
		FieldReconciliations: snapshot.Reconciliations,
		FieldOffsetChanges:   snapshot.OffsetChanges,
		FieldSkippedRenders:  snapshot.SkippedRenders,
	}

	if sync := snapshot.LastSync; sync != nil {
		fields[FieldNTPServer] = sync.Server
		fields[FieldLastSync] = formatTime(sync.At)
		fields[FieldNTPClockOffset] = sync.ClockOffset.Milliseconds()
	}

	state, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode clock state: %w", err)
	}

	return state, nil
}

// FromStruct decodes a state struct into a snapshot and the reporting host.
func FromStruct(state *structpb.Struct) (*domain.Snapshot, string, error) {
	if state == nil {
		return nil, "", errNilState
	}

	fields := state.GetFields()

	timestamp, err := parseTime(fields[FieldTimestamp].GetStringValue())
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", FieldTimestamp, err)
	}

	next, err := parseTime(fields[FieldNextTransition].GetStringValue())
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", FieldNextTransition, err)
	}

	snapshot := &domain.Snapshot{
		Timestamp:       timestamp,
		Display:         fields[FieldDisplay].GetStringValue(),
		EpochSeconds:    int64(fields[FieldEpochSeconds].GetNumberValue()),
		Offset:          dst.Offset(fields[FieldOffsetSeconds].GetNumberValue()),
		DSTActive:       fields[FieldDSTActive].GetBoolValue(),
		NextTransition:  next,
		Reconciliations: int(fields[FieldReconciliations].GetNumberValue()),
		OffsetChanges:   int(fields[FieldOffsetChanges].GetNumberValue()),
		SkippedRenders:  int(fields[FieldSkippedRenders].GetNumberValue()),
	}

	if raw, ok := fields[FieldLastSync]; ok {
		at, err := parseTime(raw.GetStringValue())
		if err != nil {
			return nil, "", fmt.Errorf("decode %s: %w", FieldLastSync, err)
		}

		snapshot.LastSync = &domain.SyncInfo{
			Server:      fields[FieldNTPServer].GetStringValue(),
			At:          at,
			ClockOffset: time.Duration(fields[FieldNTPClockOffset].GetNumberValue()) * time.Millisecond,
		}
	}

	return snapshot, fields[FieldHost].GetStringValue(), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339, s)
}
