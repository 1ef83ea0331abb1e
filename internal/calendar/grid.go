package calendar

import "time"

// MonthGrid returns the 42 calendar days shown for d's month: six full
// Sunday-first weeks starting with the Sunday on or before the 1st.
func MonthGrid(d time.Time) []time.Time {
	return daysFrom(StartOfWeek(StartOfMonth(d)), GridDays)
}

// WeekDays returns the 7 calendar days of the Sunday-first week containing d.
func WeekDays(d time.Time) []time.Time {
	return daysFrom(StartOfWeek(d), WeekLength)
}

// MonthDays returns every day of d's month in order.
func MonthDays(d time.Time) []time.Time {
	first := StartOfMonth(d)
	last := first.AddDate(0, 1, -1)
	return daysFrom(first, last.Day())
}

func daysFrom(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}
