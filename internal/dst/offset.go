package dst

import "strconv"

// Offset is a UTC offset in seconds.
type Offset int

const (
	// Sentinel is the invalid starting offset. The first reconciliation
	// against it always reports a change.
	Sentinel Offset = 0
	// Standard is Central European Time, UTC+1.
	Standard Offset = 3600
	// Daylight is Central European Summer Time, UTC+2.
	Daylight Offset = 7200
)

// Seconds returns the offset as an int, the unit the time source expects.
func (o Offset) Seconds() int {
	return int(o)
}

// String renders the offset as +HH:MM.
func (o Offset) String() string {
	sign := "+"

	secs := int(o)
	if secs < 0 {
		sign = "-"
		secs = -secs
	}

	hours, minutes := secs/3600, secs%3600/60

	return sign + pad2(hours) + ":" + pad2(minutes)
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}

	return strconv.Itoa(v)
}

// Mode names the steady state an offset corresponds to.
type Mode string

const (
	// ModeUnset is reported before the first reconciliation.
	ModeUnset Mode = "unset"
	// ModeStandard is reported while Standard is applied.
	ModeStandard Mode = "standard"
	// ModeDaylight is reported while Daylight is applied.
	ModeDaylight Mode = "daylight"
)

// Mode returns the state the offset corresponds to.
func (o Offset) Mode() Mode {
	switch o {
	case Standard:
		return ModeStandard
	case Daylight:
		return ModeDaylight
	default:
		return ModeUnset
	}
}

// OffsetState is the offset currently applied to the time source. It is
// owned by a single control loop and is not safe for concurrent use.
type OffsetState struct {
	current Offset
	changes int
}

// NewOffsetState returns a state holding the Sentinel offset.
func NewOffsetState() *OffsetState {
	return &OffsetState{current: Sentinel}
}

// Current returns the applied offset.
func (s *OffsetState) Current() Offset {
	return s.current
}

// Mode returns the steady state of the applied offset.
func (s *OffsetState) Mode() Mode {
	return s.current.Mode()
}

// Changes returns how many times Apply switched the offset.
func (s *OffsetState) Changes() int {
	return s.changes
}

// Apply records correct as the applied offset.
func (s *OffsetState) Apply(correct Offset) {
	if correct == s.current {
		return
	}

	s.current = correct
	s.changes++
}
