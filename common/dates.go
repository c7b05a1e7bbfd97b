package common

import (
	"fmt"
	"time"
)

// DayLayout is the layout of every calendar date stored or exchanged by the service
const DayLayout = "2006-01-02"

// Date an inclusive range of calendar days (YYYY-MM-DD)
type Date struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

// ParseDay parse a YYYY-MM-DD calendar date
func ParseDay(value string) (time.Time, error) {
	day, err := time.Parse(DayLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return day, nil
}

// FormatDay format t as YYYY-MM-DD in its own location
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// AddDays returns the calendar day n days after day (n may be negative)
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, n)), nil
}

// DaysBetween number of days from start to end, negative when end is before start
func DaysBetween(start, end string) (int, error) {
	s, err := ParseDay(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseDay(end)
	if err != nil {
		return 0, err
	}
	return int(e.Sub(s).Hours() / 24), nil
}

// Validate check both bounds are well formed and ordered
func (d Date) Validate() error {
	if _, err := ParseDay(d.Start); err != nil {
		return err
	}
	if _, err := ParseDay(d.End); err != nil {
		return err
	}
	if d.Start > d.End {
		return fmt.Errorf("start_date %s is after end_date %s", d.Start, d.End)
	}
	return nil
}

// Contains day is within the inclusive range
func (d Date) Contains(day string) bool {
	return day >= d.Start && day <= d.End
}

// DefaultRange resolve optional bounds: a missing end is today, a missing start
// is end minus lookbackDays
func DefaultRange(start, end string, today string, lookbackDays int) (Date, error) {
	if end == "" {
		end = today
	}
	if start == "" {
		var err error
		if start, err = AddDays(end, -lookbackDays); err != nil {
			return Date{}, err
		}
	}
	dates := Date{Start: start, End: end}
	return dates, dates.Validate()
}
