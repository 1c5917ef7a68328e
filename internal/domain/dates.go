package domain

import "time"

// DateLayout is the storage and CLI format for day-granular dates.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the day n calendar days after t.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DaysBetween returns the whole-day difference b - a.
// Calendar arithmetic in UTC keeps the result exact across DST shifts.
func DaysBetween(a, b time.Time) int {
	ad, bd := Day(a), Day(b)
	return int(bd.Sub(ad).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD string into a UTC day.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
