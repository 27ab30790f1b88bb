package dst

import "time"

const (
	// springForwardHour is the local hour DST starts on the March transition day.
	springForwardHour = 2
	// fallBackHour is the local hour DST ends on the October transition day.
	fallBackHour = 3
	// transitionHourUTC is the UTC hour of both transitions.
	transitionHourUTC = 1
)

// Engine applies the Europe/Amsterdam DST rule.
type Engine struct {
	days TransitionDays
}

// NewEngine returns an engine reading transition days from days.
// A nil days uses Computed.
func NewEngine(days TransitionDays) *Engine {
	if days == nil {
		days = Computed{}
	}

	return &Engine{days: days}
}

// Days returns the transition-day source of the engine.
//
//nolint:ireturn // The source is chosen at runtime.
func (e *Engine) Days() TransitionDays {
	return e.days
}

// Approximate reports whether transition days for the year are a fallback
// rather than exact, which happens only with a Table source outside its range.
func (e *Engine) Approximate(year int) bool {
	covered, ok := e.days.(interface{ Covers(year int) bool })

	return ok && !covered.Covers(year)
}

// IsDSTActive reports whether daylight saving time is in effect at the given
// local calendar hour. The hour is compared against local transition hours,
// so it must already carry the offset in effect.
func (e *Engine) IsDSTActive(year, month, day, hour int) bool {
	switch time.Month(month) {
	case time.April, time.May, time.June, time.July, time.August, time.September:
		return true
	case time.March:
		lastSunday := e.days.LastSunday(year, month)

		switch {
		case day < lastSunday:
			return false
		case day > lastSunday:
			return true
		default:
			return hour >= springForwardHour
		}
	case time.October:
		lastSunday := e.days.LastSunday(year, month)

		switch {
		case day < lastSunday:
			return true
		case day > lastSunday:
			return false
		default:
			return hour < fallBackHour
		}
	default:
		return false
	}
}

// IsDSTActiveAt is IsDSTActive over a Moment.
func (e *Engine) IsDSTActiveAt(m Moment) bool {
	return e.IsDSTActive(m.Year, m.Month, m.Day, m.Hour)
}

// Reconcile returns the offset that should be applied at utcEpoch and whether
// it differs from current.
//
// Local calendar fields are derived with current itself. In the hour after
// the October transition the answer therefore alternates with the applied
// offset; ReconcileExact avoids that.
func (e *Engine) Reconcile(utcEpoch int64, current Offset) (Offset, bool) {
	moment := MomentFromEpoch(utcEpoch + int64(current))

	correct := Standard
	if e.IsDSTActiveAt(moment) {
		correct = Daylight
	}

	return correct, correct != current
}

// ReconcileExact is Reconcile decided by OffsetAt instead of local calendar
// fields, so the applied offset never feeds back into the decision.
func (e *Engine) ReconcileExact(utcEpoch int64, current Offset) (Offset, bool) {
	correct := e.OffsetAt(utcEpoch)

	return correct, correct != current
}

// OffsetAt returns the offset in effect at utcEpoch, comparing the instant
// against the UTC transition instants of its year.
func (e *Engine) OffsetAt(utcEpoch int64) Offset {
	at := time.Unix(utcEpoch, 0).UTC()
	start, end := e.transitions(at.Year())

	if !at.Before(start) && at.Before(end) {
		return Daylight
	}

	return Standard
}

// NextTransition returns the first transition instant strictly after
// utcEpoch and the offset in effect from that instant on.
func (e *Engine) NextTransition(utcEpoch int64) (time.Time, Offset) {
	at := time.Unix(utcEpoch, 0).UTC()
	start, end := e.transitions(at.Year())

	switch {
	case at.Before(start):
		return start, Daylight
	case at.Before(end):
		return end, Standard
	default:
		next, _ := e.transitions(at.Year() + 1)

		return next, Daylight
	}
}

// transitions returns the UTC instants DST starts and ends in the year.
func (e *Engine) transitions(year int) (time.Time, time.Time) {
	start := time.Date(year, time.March, e.days.LastSunday(year, int(time.March)), transitionHourUTC, 0, 0, 0, time.UTC)
	end := time.Date(year, time.October, e.days.LastSunday(year, int(time.October)), transitionHourUTC, 0, 0, 0, time.UTC)

	return start, end
}
