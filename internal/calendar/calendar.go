// Package calendar holds the pure date arithmetic used by the policy guard
// and the activity services. All dates are normalized to UTC midnight so that
// equality and range comparisons against stored rows are exact.
package calendar

import "time"

const dateLayout = "2006-01-02"

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekBounds returns the Monday and Sunday of the week containing d.
func WeekBounds(d time.Time) (monday, sunday time.Time) {
	d = DateOf(d)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0 .. Sunday = 6
	monday = d.AddDate(0, 0, -offset)
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// DayName returns "Monday".."Sunday" for d.
func DayName(d time.Time) string {
	return d.Weekday().String()
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDate renders d as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(dateLayout)
}
