package dst

import (
	"fmt"
	"time"

	"cloudeng.io/datetime"
)

// Moment is a local calendar breakdown consumed by the DST decision.
// Fields are not validated; callers derive them from an epoch.
type Moment struct {
	Year  int
	Month int // 1-12
	Day   int // 1-31
	Hour  int // 0-23
}

// MomentFromEpoch breaks local seconds since the Unix epoch, that is a UTC
// epoch with an offset already added, into calendar fields.
func MomentFromEpoch(local int64) Moment {
	t := time.Unix(local, 0).UTC()
	date := datetime.CalendarDateFromTime(t)
	tod := datetime.TimeOfDayFromTime(t)

	return Moment{
		Year:  date.Year(),
		Month: int(date.Month()),
		Day:   date.Day(),
		Hour:  tod.Hour(),
	}
}

// String renders the moment as YYYY-MM-DD HHh.
func (m Moment) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02dh", m.Year, m.Month, m.Day, m.Hour)
}
