package dst

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
)

// localEpoch returns the UTC epoch at which the local wall clock, running at
// offset, shows the given time.
func localEpoch(year int, month time.Month, day, hour, minute int, offset Offset) int64 {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC).Unix() - int64(offset)
}

// TestIsDSTActive_FullMonths checks months that are entirely inside or outside DST.
func TestIsDSTActive_FullMonths(t *testing.T) {
	t.Parallel()

	for _, engine := range []*Engine{NewEngine(Table{}), NewEngine(Computed{})} {
		for year := 2024; year <= 2032; year++ {
			for _, day := range []int{1, 15, 28, 30} {
				for _, hour := range []int{0, 1, 2, 3, 23} {
					for month := 4; month <= 9; month++ {
						require.True(t, engine.IsDSTActive(year, month, day, hour))
					}

					for _, month := range []int{1, 2, 11, 12} {
						require.False(t, engine.IsDSTActive(year, month, day, hour))
					}
				}
			}
		}
	}
}

// TestIsDSTActive_BoundaryHours checks the hour switch on both transition days.
func TestIsDSTActive_BoundaryHours(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Table{})

	for year := FirstTabulatedYear; year <= LastTabulatedYear; year++ {
		march := engine.Days().LastSunday(year, 3)
		require.False(t, engine.IsDSTActive(year, 3, march, 0))
		require.False(t, engine.IsDSTActive(year, 3, march, 1))
		require.True(t, engine.IsDSTActive(year, 3, march, 2))
		require.True(t, engine.IsDSTActive(year, 3, march, 23))

		october := engine.Days().LastSunday(year, 10)
		require.True(t, engine.IsDSTActive(year, 10, october, 0))
		require.True(t, engine.IsDSTActive(year, 10, october, 2))
		require.False(t, engine.IsDSTActive(year, 10, october, 3))
		require.False(t, engine.IsDSTActive(year, 10, october, 23))
	}
}

// TestIsDSTActive_MonotonicInDay checks March only switches on and October only switches off.
func TestIsDSTActive_MonotonicInDay(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Computed{})

	for year := 2020; year <= 2040; year++ {
		for _, hour := range []int{0, 1, 2, 3, 12} {
			prev := engine.IsDSTActive(year, 3, 1, hour)
			for day := 2; day <= 31; day++ {
				cur := engine.IsDSTActive(year, 3, day, hour)
				require.False(t, prev && !cur, "march %d day %d hour %d", year, day, hour)

				prev = cur
			}

			prev = engine.IsDSTActive(year, 10, 1, hour)
			for day := 2; day <= 31; day++ {
				cur := engine.IsDSTActive(year, 10, day, hour)
				require.False(t, !prev && cur, "october %d day %d hour %d", year, day, hour)

				prev = cur
			}
		}
	}
}

// TestReconcile_Scenarios walks both 2025 transitions around the boundary hour.
func TestReconcile_Scenarios(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Table{})

	cases := []struct {
		name        string
		epoch       int64
		current     Offset
		wantActive  bool
		wantOffset  Offset
		wantChanged bool
	}{
		{
			name:       "before spring forward",
			epoch:      localEpoch(2025, time.March, 30, 1, 59, Standard),
			current:    Standard,
			wantOffset: Standard,
		},
		{
			name:        "after spring forward",
			epoch:       localEpoch(2025, time.March, 30, 2, 1, Standard),
			current:     Standard,
			wantActive:  true,
			wantOffset:  Daylight,
			wantChanged: true,
		},
		{
			name:       "before fall back",
			epoch:      localEpoch(2025, time.October, 26, 2, 30, Daylight),
			current:    Daylight,
			wantActive: true,
			wantOffset: Daylight,
		},
		{
			name:        "after fall back",
			epoch:       localEpoch(2025, time.October, 26, 3, 30, Daylight),
			current:     Daylight,
			wantOffset:  Standard,
			wantChanged: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			moment := MomentFromEpoch(tc.epoch + int64(tc.current))
			require.Equal(t, tc.wantActive, engine.IsDSTActiveAt(moment))

			offset, changed := engine.Reconcile(tc.epoch, tc.current)
			require.Equal(t, tc.wantOffset, offset)
			require.Equal(t, tc.wantChanged, changed)
		})
	}
}

// TestReconcile_SentinelAndIdempotence checks the first call always changes and a repeat does not.
func TestReconcile_SentinelAndIdempotence(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)

	for _, epoch := range []int64{
		time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC).Unix(),
		time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC).Unix(),
		time.Date(2026, time.March, 29, 3, 0, 0, 0, time.UTC).Unix(),
		time.Date(2031, time.November, 2, 22, 15, 0, 0, time.UTC).Unix(),
	} {
		state := NewOffsetState()

		correct, changed := engine.Reconcile(epoch, state.Current())
		require.True(t, changed)
		state.Apply(correct)

		again, changed := engine.Reconcile(epoch, state.Current())
		require.False(t, changed)
		require.Equal(t, correct, again)
		require.Equal(t, 1, state.Changes())
	}
}

// TestOffsetAt_MatchesTZDatabase compares the rule with Europe/Amsterdam from tzdata.
func TestOffsetAt_MatchesTZDatabase(t *testing.T) {
	t.Parallel()

	amsterdam, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)

	engine := NewEngine(Computed{})
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2036, time.January, 1, 0, 0, 0, 0, time.UTC)

	for at := start; at.Before(end); at = at.Add(30 * time.Minute) {
		_, want := at.In(amsterdam).Zone()
		require.Equal(t, Offset(want), engine.OffsetAt(at.Unix()), "at %s", at)
	}
}

// TestReconcile_AgreesWithOffsetAt checks the local-time policy against the UTC
// decision, except in the hour after the October transition where it alternates.
func TestReconcile_AgreesWithOffsetAt(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Computed{})
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	for at := start; at.Before(end); at = at.Add(15 * time.Minute) {
		epoch := at.Unix()
		want := engine.OffsetAt(epoch)

		got, changed := engine.Reconcile(epoch, want)
		if got != want {
			october := engine.Days().LastSunday(at.Year(), 10)
			require.Equal(t, time.October, at.Month(), "at %s", at)
			require.Equal(t, october, at.Day(), "at %s", at)
			require.Equal(t, transitionHourUTC, at.Hour(), "at %s", at)

			continue
		}

		require.False(t, changed, "at %s", at)
	}
}

// TestReconcileExact_NoAlternation checks the October window settles on standard time.
func TestReconcileExact_NoAlternation(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Table{})
	epoch := time.Date(2025, time.October, 26, 1, 30, 0, 0, time.UTC).Unix()

	offset, changed := engine.Reconcile(epoch, Standard)
	require.True(t, changed)
	require.Equal(t, Daylight, offset)

	offset, changed = engine.ReconcileExact(epoch, Daylight)
	require.True(t, changed)
	require.Equal(t, Standard, offset)

	offset, changed = engine.ReconcileExact(epoch, offset)
	require.False(t, changed)
	require.Equal(t, Standard, offset)
}

// TestNextTransition walks the transitions of one year into the next.
func TestNextTransition(t *testing.T) {
	t.Parallel()

	engine := NewEngine(Table{})

	at, offset := engine.NextTransition(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC).Unix())
	require.Equal(t, time.Date(2025, time.March, 30, 1, 0, 0, 0, time.UTC), at)
	require.Equal(t, Daylight, offset)

	at, offset = engine.NextTransition(at.Unix())
	require.Equal(t, time.Date(2025, time.October, 26, 1, 0, 0, 0, time.UTC), at)
	require.Equal(t, Standard, offset)

	at, offset = engine.NextTransition(at.Unix())
	require.Equal(t, time.Date(2026, time.March, 29, 1, 0, 0, 0, time.UTC), at)
	require.Equal(t, Daylight, offset)
}

// TestApproximate reports fallback years only for the table source.
func TestApproximate(t *testing.T) {
	t.Parallel()

	require.True(t, NewEngine(Table{}).Approximate(2031))
	require.False(t, NewEngine(Table{}).Approximate(2027))
	require.False(t, NewEngine(Computed{}).Approximate(2031))
}
