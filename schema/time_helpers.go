package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// DayOf calendar date of t in its own location
func DayOf(t time.Time) string {
	return t.Format(dayLayout)
}

// SyncDay set the calendar date of a clocked entity from its instant.
// When force is false an already set date is kept.
func SyncDay(c Clocked, force bool) {
	clock := c.Clock()
	if clock == nil || clock.IsZero() {
		return
	}
	if force || c.Day() == "" {
		c.SetDay(DayOf(*clock))
	}
}

// ParseClockTime parse a "HH:MM" wall clock time, the hour may have a single digit
func ParseClockTime(value string) (hour int, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 || !clockDigits(parts[0], 1) || !clockDigits(parts[1], 2) {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, _ = strconv.Atoi(parts[0])
	if hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, _ = strconv.Atoi(parts[1])
	if minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}

// clockDigits between min and 2 ascii digits
func clockDigits(s string, min int) bool {
	if len(s) < min || len(s) > 2 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AtClock combine a calendar day and a "HH:MM" time in loc
func AtClock(day string, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(dayLayout, day, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", day)
	}
	hour, minute, err := ParseClockTime(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}
