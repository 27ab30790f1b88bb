package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/oshokin/dst-clock/internal/config"
	"github.com/oshokin/dst-clock/internal/dst"
)

const (
	markMatch    = "✓"
	markMismatch = "✗"
)

var (
	// errInvalidRange is returned when the first year is after the last.
	errInvalidRange = errors.New("invalid year range")
	// errUnknownRuleSource is returned for a rule source other than computed or table.
	errUnknownRuleSource = errors.New("unknown rule source")
)

// NewEngine returns an engine reading transition days from ruleSource,
// config.RuleSourceComputed or config.RuleSourceTable.
func NewEngine(ruleSource string) (*dst.Engine, error) {
	switch ruleSource {
	case config.RuleSourceComputed:
		return dst.NewEngine(dst.Computed{}), nil
	case config.RuleSourceTable:
		return dst.NewEngine(dst.Table{}), nil
	default:
		return nil, fmt.Errorf("%w %q: want %s or %s",
			errUnknownRuleSource, ruleSource, config.RuleSourceComputed, config.RuleSourceTable)
	}
}

// YearRow compares the tabulated and computed transition days of a year.
type YearRow struct {
	Year            int
	Tabulated       bool
	TableMarch      int
	ComputedMarch   int
	TableOctober    int
	ComputedOctober int
}

// Match reports whether both sources agree for the year.
func (r YearRow) Match() bool {
	return r.TableMarch == r.ComputedMarch && r.TableOctober == r.ComputedOctober
}

// Years compares both transition-day sources for every year in [from, to].
func Years(from, to int) ([]YearRow, error) {
	if from > to {
		return nil, fmt.Errorf("%w: %d > %d", errInvalidRange, from, to)
	}

	var (
		tab      dst.Table
		computed dst.Computed
		rows     = make([]YearRow, 0, to-from+1)
	)

	for year := from; year <= to; year++ {
		rows = append(rows, YearRow{
			Year:            year,
			Tabulated:       tab.Covers(year),
			TableMarch:      tab.LastSunday(year, int(time.March)),
			ComputedMarch:   computed.LastSunday(year, int(time.March)),
			TableOctober:    tab.LastSunday(year, int(time.October)),
			ComputedOctober: computed.LastSunday(year, int(time.October)),
		})
	}

	return rows, nil
}

// TransitionTable renders rows as a table with a match mark per year.
func TransitionTable(rows []YearRow) table.Writer {
	tw := table.NewWriter()
	tw.SetTitle("Last Sunday transition days")
	tw.AppendHeader(table.Row{"Year", "Mar table", "Mar computed", "Oct table", "Oct computed", "Tabulated", "Match"})

	for _, r := range rows {
		tw.AppendRow(table.Row{
			r.Year,
			r.TableMarch,
			r.ComputedMarch,
			r.TableOctober,
			r.ComputedOctober,
			r.Tabulated,
			mark(r.Match()),
		})
	}

	return tw
}

// BoundaryTable shows the decision at the hours around both transitions of
// every year in rows, using engine. ruleSource names its day source in the title.
func BoundaryTable(engine *dst.Engine, ruleSource string, rows []YearRow) table.Writer {
	tw := table.NewWriter()
	tw.SetTitle("DST decisions at the transition hours (local, " + ruleSource + " days)")
	tw.AppendHeader(table.Row{"Year", "Mar day", "01h", "02h", "Oct day", "02h", "03h"})

	days := engine.Days()

	for _, r := range rows {
		march := days.LastSunday(r.Year, int(time.March))
		october := days.LastSunday(r.Year, int(time.October))

		tw.AppendRow(table.Row{
			r.Year,
			march,
			engine.IsDSTActive(r.Year, int(time.March), march, 1),
			engine.IsDSTActive(r.Year, int(time.March), march, 2),
			october,
			engine.IsDSTActive(r.Year, int(time.October), october, 2),
			engine.IsDSTActive(r.Year, int(time.October), october, 3),
		})
	}

	return tw
}

// Check is the DST decision for one UTC instant and applied offset.
type Check struct {
	Epoch      int64
	Current    dst.Offset
	Moment     dst.Moment
	Active     bool
	Reconciled dst.Offset
	Changed    bool
	Exact      dst.Offset
	Next       time.Time
	NextOffset dst.Offset
}

// NewCheck evaluates engine for utcEpoch with current applied.
func NewCheck(engine *dst.Engine, utcEpoch int64, current dst.Offset) Check {
	moment := dst.MomentFromEpoch(utcEpoch + int64(current))
	reconciled, changed := engine.Reconcile(utcEpoch, current)
	next, nextOffset := engine.NextTransition(utcEpoch)

	return Check{
		Epoch:      utcEpoch,
		Current:    current,
		Moment:     moment,
		Active:     engine.IsDSTActiveAt(moment),
		Reconciled: reconciled,
		Changed:    changed,
		Exact:      engine.OffsetAt(utcEpoch),
		Next:       next,
		NextOffset: nextOffset,
	}
}

// Table renders the check as a two-column table.
func (c Check) Table() table.Writer {
	tw := table.NewWriter()
	tw.SetTitle("DST check")
	tw.AppendRows([]table.Row{
		{"UTC", time.Unix(c.Epoch, 0).UTC().Format(time.RFC3339)},
		{"Applied offset", c.Current.String()},
		{"Local moment", c.Moment.String()},
		{"DST active", c.Active},
		{"Reconcile", fmt.Sprintf("%s (changed: %t)", c.Reconciled, c.Changed)},
		{"Exact offset", c.Exact.String()},
		{"Agree", mark(c.Reconciled == c.Exact)},
		{"Next transition", fmt.Sprintf("%s to %s", c.Next.Format(time.RFC3339), c.NextOffset)},
	})

	return tw
}

func mark(ok bool) string {
	if ok {
		return markMatch
	}

	return markMismatch
}
