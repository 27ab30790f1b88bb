package dst

import "time"

const (
	// FirstTabulatedYear is the first year the precomputed table covers.
	FirstTabulatedYear = 2025
	// LastTabulatedYear is the last year the precomputed table covers.
	LastTabulatedYear = 2030

	// FallbackMarchDay is returned for March of a year the table does not cover.
	FallbackMarchDay = 31
	// FallbackOctoberDay is returned for October of a year the table does not cover.
	FallbackOctoberDay = 27
	// FallbackDay is returned for months other than March and October.
	FallbackDay = 31
)

// TransitionDays returns the day of month on which the last Sunday of the
// given month falls.
type TransitionDays interface {
	LastSunday(year, month int) int
}

// transitionDays holds the March and October transition days of one year.
type transitionDays struct {
	march   int
	october int
}

// tabulated lists the published Europe/Amsterdam transition days.
//
//nolint:gochecknoglobals // Read-only lookup table.
var tabulated = map[int]transitionDays{
	2025: {march: 30, october: 26},
	2026: {march: 29, october: 25},
	2027: {march: 28, october: 31},
	2028: {march: 26, october: 29},
	2029: {march: 25, october: 28},
	2030: {march: 31, october: 27},
}

// Table is the precomputed transition-day lookup.
//
// It is authoritative only for FirstTabulatedYear..LastTabulatedYear. Any
// other year receives FallbackMarchDay or FallbackOctoberDay, which is an
// approximation and not a computed Sunday. Use Covers to detect that case.
type Table struct{}

// LastSunday implements TransitionDays.
func (Table) LastSunday(year, month int) int {
	days, ok := tabulated[year]

	switch time.Month(month) {
	case time.March:
		if !ok {
			return FallbackMarchDay
		}

		return days.march
	case time.October:
		if !ok {
			return FallbackOctoberDay
		}

		return days.october
	default:
		return FallbackDay
	}
}

// Covers reports whether the table holds exact days for the year.
func (Table) Covers(year int) bool {
	_, ok := tabulated[year]

	return ok
}
