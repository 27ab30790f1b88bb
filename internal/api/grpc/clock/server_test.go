package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	domain "github.com/oshokin/dst-clock/internal/domain/clock"
	"github.com/oshokin/dst-clock/internal/dst"
)

// fakeService returns a fixed snapshot.
type fakeService struct {
	snapshot *domain.Snapshot
}

// Snapshot returns the configured snapshot.
func (f *fakeService) Snapshot(context.Context) *domain.Snapshot { return f.snapshot }

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Timestamp:      time.Date(2025, time.October, 26, 0, 30, 5, 0, time.UTC),
		Display:        "02:30:05",
		EpochSeconds:   time.Date(2025, time.October, 26, 0, 30, 5, 0, time.UTC).Unix(),
		Offset:         dst.Daylight,
		DSTActive:      true,
		NextTransition: time.Date(2025, time.October, 26, 1, 0, 0, 0, time.UTC),
		LastSync: &domain.SyncInfo{
			Server:      "pool.ntp.org",
			At:          time.Date(2025, time.October, 26, 0, 30, 0, 0, time.UTC),
			ClockOffset: 250 * time.Millisecond,
		},
		Reconciliations: 12,
		OffsetChanges:   1,
		SkippedRenders:  2,
	}
}

// TestServer_GetClockState_Unavailable ensures a missing snapshot maps to Unavailable.
func TestServer_GetClockState_Unavailable(t *testing.T) {
	t.Parallel()

	s := NewServer(new(fakeService), "clock-1")

	_, err := s.GetClockState(context.Background(), new(emptypb.Empty))
	require.Equal(t, codes.Unavailable, status.Code(err))
}

// TestServer_GetClockState encodes the snapshot and decodes it back on the client side.
func TestServer_GetClockState(t *testing.T) {
	t.Parallel()

	want := testSnapshot()
	s := NewServer(&fakeService{snapshot: want}, "clock-1")

	state, err := s.GetClockState(context.Background(), new(emptypb.Empty))
	require.NoError(t, err)
	require.Equal(t, "daylight", state.GetFields()[FieldMode].GetStringValue())
	require.Equal(t, "+02:00", state.GetFields()[FieldOffset].GetStringValue())

	got, host, err := FromStruct(state)
	require.NoError(t, err)
	require.Equal(t, "clock-1", host)
	require.Equal(t, want, got)
}

// TestFromStruct_Unsynced leaves LastSync nil when the clock never synchronized.
func TestFromStruct_Unsynced(t *testing.T) {
	t.Parallel()

	snapshot := testSnapshot()
	snapshot.LastSync = nil

	state, err := ToStruct(snapshot, "")
	require.NoError(t, err)

	got, _, err := FromStruct(state)
	require.NoError(t, err)
	require.Nil(t, got.LastSync)

	_, _, err = FromStruct(nil)
	require.Error(t, err)
}

// TestRegister checks the hand-written descriptor is accepted by grpc.Server.
func TestRegister(t *testing.T) {
	t.Parallel()

	srv := grpc.NewServer()
	Register(srv, NewServer(new(fakeService), ""))

	info := srv.GetServiceInfo()
	require.Contains(t, info, ServiceName)
	require.Equal(t, "GetClockState", info[ServiceName].Methods[0].Name)
}
