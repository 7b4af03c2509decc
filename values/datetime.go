package values

import "time"

// DateTimeNT pairs a timestamp with a named timezone (e.g. "America/
// New_York"), per spec section 3.1. Payload is immutable.
type DateTimeNT struct {
	Time time.Time
	Zone string
}

// NewDateTimeNT builds a DateTimeNT value. t must already be in the
// named zone's *time.Location.
func NewDateTimeNT(t time.Time, zone string) *Value {
	return &Value{Kind: KindDateTimeNT, Data: DateTimeNT{Time: t, Zone: zone}}
}

// DateTimeOT pairs a timestamp with a fixed UTC offset, in seconds east
// of UTC.
type DateTimeOT struct {
	Time         time.Time
	OffsetSecond int
}

// NewDateTimeOT builds a DateTimeOT value.
func NewDateTimeOT(t time.Time, offsetSeconds int) *Value {
	return &Value{Kind: KindDateTimeOT, Data: DateTimeOT{Time: t, OffsetSecond: offsetSeconds}}
}
