package duration

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/on-the-ground/effect_ive_cookbook/pure"
)

var ErrInvalidDuration = errors.New("invalid duration")

var inputPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s+(nanos?|micros?|millis?|seconds?|minutes?|hours?|days?|weeks?)$`)

const decodeTableSize = 256

// Decode parses "<amount> <unit>" inputs such as "100 millis", "3 seconds"
// or "1 minute", the literal "Infinity", and Go duration syntax such as
// "1.5s". Results are memoized.
var Decode = pure.TableizeI1O2(decode, decodeTableSize)

func decode(input string) (Duration, error) {
	s := strings.TrimSpace(input)
	if s == "Infinity" {
		return Infinity, nil
	}

	if m := inputPattern.FindStringSubmatch(s); m != nil {
		// amounts too large for a float64 come back as +Inf with ErrRange
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Zero, fmt.Errorf("%w: %q: %v", ErrInvalidDuration, input, err)
		}
		switch strings.TrimSuffix(m[2], "s") {
		case "nano":
			return nanosOf(amount), nil
		case "micro":
			return nanosOf(amount * 1_000), nil
		case "milli":
			return Millis(amount), nil
		case "second":
			return Seconds(amount), nil
		case "minute":
			return Minutes(amount), nil
		case "hour":
			return Hours(amount), nil
		case "day":
			return Days(amount), nil
		case "week":
			return Weeks(amount), nil
		}
	}

	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return FromTime(d), nil
	}
	return Zero, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
}

// nanosOf saturates at Infinity where int64 nanoseconds would overflow.
func nanosOf(amount float64) Duration {
	if amount >= math.MaxInt64 {
		return Infinity
	}
	return Nanos(int64(amount))
}

// MustDecode is Decode for inputs known to be valid.
func MustDecode(input string) Duration {
	d, err := Decode(input)
	if err != nil {
		panic(err)
	}
	return d
}

// UnmarshalText lets a Duration be read from configuration files.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := Decode(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
