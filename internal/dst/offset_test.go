package dst

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestOffset_StringAndMode covers formatting and state naming.
func TestOffset_StringAndMode(t *testing.T) {
	t.Parallel()

	require.Equal(t, "+01:00", Standard.String())
	require.Equal(t, "+02:00", Daylight.String())
	require.Equal(t, "-03:30", Offset(-12600).String())
	require.Equal(t, ModeStandard, Standard.Mode())
	require.Equal(t, ModeDaylight, Daylight.Mode())
	require.Equal(t, ModeUnset, Sentinel.Mode())
	require.Equal(t, 7200, Daylight.Seconds())
}

// TestOffsetState_Apply counts only real changes.
func TestOffsetState_Apply(t *testing.T) {
	t.Parallel()

	state := NewOffsetState()
	require.Equal(t, Sentinel, state.Current())
	require.Equal(t, ModeUnset, state.Mode())

	state.Apply(Standard)
	state.Apply(Standard)
	require.Equal(t, ModeStandard, state.Mode())
	require.Equal(t, 1, state.Changes())

	state.Apply(Daylight)
	require.Equal(t, Daylight, state.Current())
	require.Equal(t, 2, state.Changes())
}

// TestMomentFromEpoch checks calendar decomposition including a leap day.
func TestMomentFromEpoch(t *testing.T) {
	t.Parallel()

	m := MomentFromEpoch(time.Date(2028, time.February, 29, 23, 59, 59, 0, time.UTC).Unix())
	require.Equal(t, Moment{Year: 2028, Month: 2, Day: 29, Hour: 23}, m)
	require.Equal(t, "2028-02-29 23h", m.String())

	m = MomentFromEpoch(time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC).Unix() + int64(Standard))
	require.Equal(t, Moment{Year: 2026, Month: 1, Day: 1, Hour: 0}, m)
}
