package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a time of day in whole seconds since midnight.
// Its canonical text form is "HH:mm:ss".
type ClockTime int

const secondsPerDay = 24 * 60 * 60

// ErrInvalidTime is wrapped by every time-of-day parse failure.
var ErrInvalidTime = errors.New("invalid time of day")

// ParseClock accepts "HH:mm:ss" or "HH:mm" (24-hour). Anything else is rejected.
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	limits := []int{23, 59, 59}
	var fields [3]int
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		fields[i] = n
	}
	return ClockTime(fields[0]*3600 + fields[1]*60 + fields[2]), nil
}

// MustParseClock panics on malformed input. Intended for constants and tests.
func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String renders the canonical "HH:mm:ss" form.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)%3600/60, int(c)%60)
}

// HourMinute renders "HH:mm" (24-hour).
func (c ClockTime) HourMinute() string {
	return fmt.Sprintf("%02d:%02d", int(c)/3600, int(c)%3600/60)
}

// Kitchen renders "hh:mm AM/PM".
func (c ClockTime) Kitchen() string {
	h := int(c) / 3600
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h12, int(c)%3600/60, suffix)
}

// Add returns c shifted by d. The result may run past midnight; callers compare
// against an end bound rather than wrap.
func (c ClockTime) Add(d time.Duration) ClockTime {
	return c + ClockTime(d/time.Second)
}

// On anchors the wall-clock time to the calendar date of day, in day's location.
// It is built from its fields so DST changes on that date do not shift it.
func (c ClockTime) On(day time.Time) time.Time {
	y, m, d := day.Date()
	secs := int(c)
	return time.Date(y, m, d, secs/3600, secs%3600/60, secs%60, 0, day.Location())
}

// Valid reports whether c lies within a single day.
func (c ClockTime) Valid() bool {
	return c >= 0 && c < secondsPerDay
}
