// Package duration is an immutable elapsed-time value tagged with the unit
// it is stored in.
//
// Coarse constructors (Millis and up) store milliseconds, which may be
// fractional; Nanos and Micros store whole nanoseconds. Arithmetic keeps
// the coarse unit when both operands have it and falls back to nanoseconds
// otherwise. Equality and ordering compare magnitudes, never tags.
package duration

import (
	"math"
	"time"
)

// Tag names the unit a Duration is stored in.
type Tag string

const (
	TagMillis   Tag = "Millis"
	TagNanos    Tag = "Nanos"
	TagInfinity Tag = "Infinity"
)

// Duration is an immutable span of time.
type Duration struct {
	tag    Tag
	millis float64
	nanos  int64
}

// Zero is a zero-length Duration.
var Zero = Millis(0)

// Infinity is longer than every finite Duration.
var Infinity = Duration{tag: TagInfinity}

func Nanos(n int64) Duration {
	if n < 0 {
		n = 0
	}
	return Duration{tag: TagNanos, nanos: n}
}

func Micros(n int64) Duration {
	if n > math.MaxInt64/1_000 {
		return Infinity
	}
	return Nanos(n * 1_000)
}

func Millis(ms float64) Duration {
	switch {
	case math.IsNaN(ms) || ms <= 0:
		return Duration{tag: TagMillis}
	case math.IsInf(ms, 1):
		return Infinity
	}
	return Duration{tag: TagMillis, millis: ms}
}

func Seconds(s float64) Duration { return Millis(s * 1_000) }
func Minutes(m float64) Duration { return Millis(m * 60_000) }
func Hours(h float64) Duration   { return Millis(h * 3_600_000) }
func Days(d float64) Duration    { return Millis(d * 86_400_000) }
func Weeks(w float64) Duration   { return Millis(w * 604_800_000) }

// FromTime converts a time.Duration; negative values become zero.
func FromTime(d time.Duration) Duration {
	return Nanos(int64(d))
}

func (d Duration) Tag() Tag {
	if d.tag == "" {
		return TagMillis
	}
	return d.tag
}

func (d Duration) IsInfinite() bool { return d.tag == TagInfinity }

func (d Duration) IsZero() bool {
	n, inf := d.toNanos()
	return !inf && n == 0
}

// toNanos returns the magnitude in nanoseconds, or inf when it does not fit.
func (d Duration) toNanos() (n int64, inf bool) {
	switch d.Tag() {
	case TagInfinity:
		return 0, true
	case TagNanos:
		return d.nanos, false
	}
	f := math.Round(d.millis * 1e6)
	if f >= math.MaxInt64 {
		return 0, true
	}
	return int64(f), false
}

// ToMillis returns the magnitude in milliseconds; +Inf for Infinity.
func (d Duration) ToMillis() float64 {
	switch d.Tag() {
	case TagInfinity:
		return math.Inf(1)
	case TagNanos:
		return float64(d.nanos) / 1e6
	}
	return d.millis
}

// ToTime converts to a time.Duration; Infinity saturates at the maximum.
func (d Duration) ToTime() time.Duration {
	n, inf := d.toNanos()
	if inf {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(n)
}

// Sum adds two durations.
func Sum(a, b Duration) Duration {
	if a.IsInfinite() || b.IsInfinite() {
		return Infinity
	}
	if a.Tag() == TagMillis && b.Tag() == TagMillis {
		return Millis(a.millis + b.millis)
	}
	an, _ := a.toNanos()
	bn, _ := b.toNanos()
	if an > math.MaxInt64-bn {
		return Infinity
	}
	return Nanos(an + bn)
}

// Subtract returns a - b, floored at zero.
func Subtract(a, b Duration) Duration {
	switch {
	case a.IsInfinite():
		return Infinity
	case b.IsInfinite():
		return Zero
	}
	if a.Tag() == TagMillis && b.Tag() == TagMillis {
		return Millis(a.millis - b.millis)
	}
	an, _ := a.toNanos()
	bn, _ := b.toNanos()
	return Nanos(an - bn)
}

// Times scales d by k and keeps its unit.
func Times(d Duration, k float64) Duration {
	switch d.Tag() {
	case TagInfinity:
		return Infinity
	case TagMillis:
		return Millis(d.millis * k)
	}
	f := math.Round(float64(d.nanos) * k)
	if f >= math.MaxInt64 {
		return Infinity
	}
	return Nanos(int64(f))
}

// Compare returns -1, 0 or +1 as a is shorter than, equal to or longer than b.
func Compare(a, b Duration) int {
	an, ainf := a.toNanos()
	bn, binf := b.toNanos()
	switch {
	case ainf && binf:
		return 0
	case ainf:
		return 1
	case binf:
		return -1
	case an < bn:
		return -1
	case an > bn:
		return 1
	}
	return 0
}

func Equals(a, b Duration) bool      { return Compare(a, b) == 0 }
func LessThan(a, b Duration) bool    { return Compare(a, b) < 0 }
func GreaterThan(a, b Duration) bool { return Compare(a, b) > 0 }

func Min(a, b Duration) Duration {
	if LessThan(b, a) {
		return b
	}
	return a
}

func Max(a, b Duration) Duration {
	if GreaterThan(b, a) {
		return b
	}
	return a
}

// Between reports whether lo <= d <= hi.
func Between(d, lo, hi Duration) bool {
	return Compare(d, lo) >= 0 && Compare(d, hi) <= 0
}
