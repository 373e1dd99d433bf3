package calendar

import "time"

// Day keeps the calendar date of t, read in t's own zone, as UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InclusiveDays counts the calendar days from start to end with both ends
// included. It is zero when end falls before start.
func InclusiveDays(start, end time.Time) int {
	s, e := Day(start), Day(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s)/(24*time.Hour)) + 1
}
