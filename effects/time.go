package effects

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// TimeSpan is the wall-clock interval a fiber or a run occupied.
type TimeSpan = timespan.TimeSpan

// SpanSince returns the interval from start until now.
func SpanSince(start time.Time) TimeSpan {
	return timespan.BetweenTimes(start, time.Now())
}

// SpanBetween returns the interval from start to end.
func SpanBetween(start, end time.Time) TimeSpan {
	return timespan.BetweenTimes(start, end)
}

// Elapsed is the length of span.
func Elapsed(span TimeSpan) time.Duration {
	return span.Duration()
}

// TimeBounded is implemented by anything with a known lifetime.
type TimeBounded interface {
	TimeSpan() TimeSpan
}
