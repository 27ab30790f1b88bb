package display

import "errors"

// TimeLength is the exact length of a displayable time string.
const TimeLength = len("15:04:05")

// ErrClosed is returned when rendering to a closed sink.
var ErrClosed = errors.New("display closed")

// Sink presents the clock string.
type Sink interface {
	Render(text string) error
	Close() error
}

// Indicator is implemented by sinks with a heartbeat marker.
type Indicator interface {
	Toggle()
}

// Quitter is implemented by sinks that let the user ask to quit.
type Quitter interface {
	Quit() <-chan struct{}
}

// ValidTime reports whether text is a 24-hour, zero-padded HH:MM:SS string.
func ValidTime(text string) bool {
	if len(text) != TimeLength || text[2] != ':' || text[5] != ':' {
		return false
	}

	hours, ok := twoDigits(text[0:2])
	if !ok || hours > 23 {
		return false
	}

	minutes, ok := twoDigits(text[3:5])
	if !ok || minutes > 59 {
		return false
	}

	seconds, ok := twoDigits(text[6:8])

	return ok && seconds <= 59
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}

	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
