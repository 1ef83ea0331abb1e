// Package calendar is the temporal layout engine behind the month, week and
// agenda views. Everything here is a pure function of its inputs: callers pass
// an event snapshot and a reference date and get fresh derived values back.
//
// Calendar days are times at local midnight in the location of the input.
// Day arithmetic goes through AddDate so a DST transition never moves a grid
// cell off midnight.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	// GridDays is the fixed size of a month grid: 6 weeks of 7 days.
	GridDays = 42
	// WeekLength is the number of days in a week window.
	WeekLength = 7
)

// DateLayout is the layout accepted by ParseDate.
const DateLayout = "2006-01-02"

// InvalidDateError reports input that is not a calendar date.
type InvalidDateError struct {
	Input string
	Err   error
}

func (e *InvalidDateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("calendar: invalid date %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("calendar: invalid date %q", e.Input)
}

func (e *InvalidDateError) Unwrap() error { return e.Err }

// ParseDate parses a YYYY-MM-DD date (an RFC 3339 timestamp is also accepted)
// at midnight in loc. If loc is nil, time.Local is used.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, &InvalidDateError{Input: s}
	}

	t, err := time.ParseInLocation(DateLayout, v, loc)
	if err == nil {
		return t, nil
	}
	if ts, tsErr := time.Parse(time.RFC3339, v); tsErr == nil {
		// Keep the wall clock of the timestamp; only the date part matters.
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, &InvalidDateError{Input: s, Err: err}
}

// StartOfDay strips the time of day from t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday on or before t, at midnight.
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// AddDays moves a calendar day by n days, keeping it at midnight.
func AddDays(day time.Time, n int) time.Time {
	return StartOfDay(day).AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// DaysBetween returns the number of whole calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// InRange reports whether t lies in the half-open range [start, end).
func InRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// DurationMinutes returns the whole minutes from start to end, truncated
// toward zero. Negative for inverted intervals.
func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// MinutesSinceMidnight returns the wall-clock minutes elapsed since midnight.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// SetTime returns t's date at hour:minute, with seconds cleared.
func SetTime(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

// AddMinutes shifts t by a signed number of minutes.
func AddMinutes(t time.Time, minutes int) time.Time {
	return t.Add(time.Duration(minutes) * time.Minute)
}
