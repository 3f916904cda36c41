package plays

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedClock is returned for game clocks that are not mm:ss.
var ErrMalformedClock = errors.New("malformed game clock")

// ParseClock splits an "mm:ss" game clock into minutes and seconds.
// Single-digit minutes ("0:00") are accepted.
func ParseClock(clock string) (minutes, seconds int, err error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok || !isDigits(mm) || len(ss) != 2 || !isDigits(ss) {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedClock, clock)
	}

	minutes, _ = strconv.Atoi(mm)
	seconds, _ = strconv.Atoi(ss)
	if seconds > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedClock, clock)
	}
	return minutes, seconds, nil
}

func isDigits(s string) bool {
	if s == "" || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsClutchPeriod reports whether quarter is the final regulation period or
// any overtime period.
func IsClutchPeriod(quarter, finalQuarter string) bool {
	q := strings.ToUpper(strings.TrimSpace(quarter))
	if q == strings.ToUpper(finalQuarter) {
		return true
	}
	rest, ok := strings.CutPrefix(q, "OT")
	return ok && (rest == "" || isDigits(rest))
}
