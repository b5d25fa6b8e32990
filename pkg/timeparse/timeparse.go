// Package timeparse normalizes the duration and clock-time spellings that
// appear in item and template records.
package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parallel is the duration sentinel for items that run alongside their
// siblings instead of consuming sequential time.
const Parallel = "parallel"

// Minutes converts a duration value to whole minutes.
// Accepted forms: int, "45", "45m", "2h", "1h30m", "parallel".
// Anything unparseable yields 0; callers treat 0 as "no duration".
func Minutes(v any) int {
	switch d := v.(type) {
	case nil:
		return 0
	case int:
		if d < 0 {
			return 0
		}
		return d
	case int64:
		return Minutes(int(d))
	case float64:
		return Minutes(int(d))
	case string:
		return parseDurationString(d)
	default:
		return 0
	}
}

// IsParallel reports whether a duration value is the parallel sentinel.
func IsParallel(v any) bool {
	s, ok := v.(string)
	return ok && strings.EqualFold(strings.TrimSpace(s), Parallel)
}

func parseDurationString(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == Parallel {
		return 0
	}

	// Plain integer string means minutes.
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}

	total := 0
	rest := s
	if i := strings.Index(rest, "h"); i != -1 {
		hours, err := strconv.Atoi(strings.TrimSpace(rest[:i]))
		if err != nil || hours < 0 {
			return 0
		}
		total = hours * 60
		rest = rest[i+1:]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return total
	}
	rest = strings.TrimSuffix(rest, "m")
	mins, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || mins < 0 {
		return 0
	}
	return total + mins
}

// Clock parses a 24-hour "HH:MM" (or "H:MM") string onto today's date.
// The boolean is false when the input is not a clock time.
func Clock(s string) (time.Time, bool) {
	return ClockOn(time.Now(), s)
}

// ClockOn parses a clock string onto the given date.
func ClockOn(day time.Time, s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, false
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location()), true
}

// FormatClock renders a time as "HH:MM".
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// FormatMinutes renders minutes in the compact "1h30m" style used in records.
func FormatMinutes(mins int) string {
	if mins <= 0 {
		return "0m"
	}
	h, m := mins/60, mins%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
