package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/dst-clock/internal/dst"
)

// TestYears checks both sources agree inside the table and differ in 2031.
func TestYears(t *testing.T) {
	t.Parallel()

	rows, err := Years(2025, 2031)
	require.NoError(t, err)
	require.Len(t, rows, 7)

	for _, r := range rows[:6] {
		require.True(t, r.Tabulated, r.Year)
		require.True(t, r.Match(), r.Year)
	}

	last := rows[6]
	require.False(t, last.Tabulated)
	require.Equal(t, 31, last.TableMarch)
	require.Equal(t, 30, last.ComputedMarch)
	require.False(t, last.Match())
}

// TestYears_InvalidRange rejects a reversed range.
func TestYears_InvalidRange(t *testing.T) {
	t.Parallel()

	_, err := Years(2030, 2025)
	require.ErrorIs(t, err, errInvalidRange)
}

// TestTransitionTable checks years and match marks are rendered.
func TestTransitionTable(t *testing.T) {
	t.Parallel()

	rows, err := Years(2030, 2031)
	require.NoError(t, err)

	out := TransitionTable(rows).Render()
	require.Contains(t, out, "2030")
	require.Contains(t, out, markMatch)
	require.Contains(t, out, markMismatch)
}

// TestBoundaryTable checks the decisions around the transition hours are rendered.
func TestBoundaryTable(t *testing.T) {
	t.Parallel()

	rows, err := Years(2025, 2025)
	require.NoError(t, err)

	out := BoundaryTable(dst.NewEngine(nil), "computed", rows).Render()
	require.Contains(t, out, "computed days")
	require.Contains(t, out, "2025")
	require.Contains(t, out, "false")
	require.Contains(t, out, "true")
}

// TestNewCheck evaluates the spring-forward scenario one minute after the change.
func TestNewCheck(t *testing.T) {
	t.Parallel()

	engine := dst.NewEngine(nil)

	// 2025-03-30 01:01 UTC with standard time applied reads 02:01 local.
	epoch := time.Date(2025, time.March, 30, 1, 1, 0, 0, time.UTC).Unix()

	c := NewCheck(engine, epoch, dst.Standard)
	require.Equal(t, dst.Moment{Year: 2025, Month: 3, Day: 30, Hour: 2}, c.Moment)
	require.True(t, c.Active)
	require.Equal(t, dst.Daylight, c.Reconciled)
	require.True(t, c.Changed)
	require.Equal(t, dst.Daylight, c.Exact)
	require.Equal(t, time.Date(2025, time.October, 26, 1, 0, 0, 0, time.UTC), c.Next)
	require.Equal(t, dst.Standard, c.NextOffset)

	out := c.Table().Render()
	require.Contains(t, out, "2025-03-30 02h")
	require.Contains(t, out, "+02:00")
}

// TestBoundaryTable_FollowsRuleSource checks the table day source shows its
// fallback days for a year it does not cover.
func TestBoundaryTable_FollowsRuleSource(t *testing.T) {
	t.Parallel()

	rows, err := Years(2031, 2031)
	require.NoError(t, err)

	engine, err := NewEngine("table")
	require.NoError(t, err)

	out := BoundaryTable(engine, "table", rows).Render()
	require.Contains(t, out, "table days")
	require.Contains(t, out, " 31 ")
	require.Contains(t, out, " 27 ")

	engine, err = NewEngine("computed")
	require.NoError(t, err)

	out = BoundaryTable(engine, "computed", rows).Render()
	require.Contains(t, out, " 30 ")
	require.Contains(t, out, " 26 ")
}

// TestNewEngine checks both rule sources and rejects anything else.
func TestNewEngine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source  string
		want    dst.TransitionDays
		wantErr bool
	}{
		{source: "computed", want: dst.Computed{}},
		{source: "table", want: dst.Table{}},
		{source: "tabel", wantErr: true},
		{source: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			engine, err := NewEngine(tt.source)
			if tt.wantErr {
				require.ErrorIs(t, err, errUnknownRuleSource)
				require.Nil(t, engine)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, engine.Days())
		})
	}
}
