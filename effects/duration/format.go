package duration

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rickb777/period"
)

// String renders d in the unit it is stored in, e.g. "Duration(90000 millis)".
func (d Duration) String() string {
	switch d.Tag() {
	case TagInfinity:
		return "Duration(Infinity)"
	case TagNanos:
		return fmt.Sprintf("Duration(%d nanos)", d.nanos)
	}
	return fmt.Sprintf("Duration(%s millis)", strconv.FormatFloat(d.millis, 'f', -1, 64))
}

// Format renders d for humans, e.g. "1m 30s".
func (d Duration) Format() string {
	if d.IsInfinite() {
		return "Infinity"
	}
	n, _ := d.toNanos()
	if n == 0 {
		return "0"
	}

	units := []struct {
		suffix string
		nanos  int64
	}{
		{"d", 86_400_000_000_000},
		{"h", 3_600_000_000_000},
		{"m", 60_000_000_000},
		{"s", 1_000_000_000},
		{"ms", 1_000_000},
		{"ns", 1},
	}
	var parts []string
	for _, u := range units {
		if q := n / u.nanos; q > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", q, u.suffix))
			n -= q * u.nanos
		}
	}
	return strings.Join(parts, " ")
}

// ISO renders d as an ISO-8601 period such as "PT1M30S". Seconds ripple up
// to minutes and hours but never to days. Infinity has no ISO form and
// renders as "".
func (d Duration) ISO() string {
	if d.IsInfinite() {
		return ""
	}
	if d.IsZero() {
		return period.Zero.String()
	}
	return period.NewOf(d.ToTime()).Normalise(true).String()
}

// MarshalJSON renders d as {"_id":"Duration","_tag":"Millis","millis":90000}.
// Nanos render as {"_id":"Duration","_tag":"Nanos","hrtime":[seconds,nanos]}.
func (d Duration) MarshalJSON() ([]byte, error) {
	switch d.Tag() {
	case TagInfinity:
		return json.Marshal(struct {
			ID  string `json:"_id"`
			Tag Tag    `json:"_tag"`
		}{"Duration", TagInfinity})
	case TagNanos:
		return json.Marshal(struct {
			ID     string   `json:"_id"`
			Tag    Tag      `json:"_tag"`
			HRTime [2]int64 `json:"hrtime"`
		}{"Duration", TagNanos, [2]int64{d.nanos / 1e9, d.nanos % 1e9}})
	}
	return json.Marshal(struct {
		ID     string  `json:"_id"`
		Tag    Tag     `json:"_tag"`
		Millis float64 `json:"millis"`
	}{"Duration", TagMillis, d.millis})
}
