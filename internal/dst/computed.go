package dst

import "time"

// Computed derives the last Sunday of a month from the calendar, for any year
// of the proleptic Gregorian calendar.
type Computed struct{}

// LastSunday implements TransitionDays.
func (Computed) LastSunday(year, month int) int {
	// Day 0 of the following month normalizes to the last day of this one.
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)

	return last.Day() - int(last.Weekday()-time.Sunday)
}
