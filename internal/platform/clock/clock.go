package clock

import "time"

// Clock abstracts wall time so stopwatch and event-log math stays
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// NowMillis snapshots the clock as milliseconds since epoch, the unit used
// throughout the event log.
func NowMillis(c Clock) int64 {
	return c.Now().UnixMilli()
}
