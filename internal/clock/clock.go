package clock

import "time"

const DateLayout = "2006-01-02"

// Clock supplies the current instant. Services never call time.Now directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock { return systemClock{} }

// Fixed is a clock frozen at T, used by jobs replays and tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// DateOf returns the calendar day of t (read in loc) as midnight UTC.
// All date columns are stored in this form so plain comparisons work.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar day in loc, truncated to midnight UTC.
func Today(c Clock, loc *time.Location) time.Time {
	return DateOf(c.Now(), loc)
}

// ParseDate parses an ISO date (2006-01-02) into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DaysIn returns the number of days of month m in year y.
func DaysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueDate returns day `day` of the given month, clamped to the last day of
// that month (31 in February gives the 28th or 29th).
func DueDate(y int, m time.Month, day int) time.Time {
	if last := DaysIn(y, m); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// MonthsSpanned counts the calendar months touched by [start, end], partial
// boundary months included. It returns 0 when end is before start.
func MonthsSpanned(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	sy, sm, _ := start.Date()
	ey, em, _ := end.Date()
	return (ey-sy)*12 + int(em-sm) + 1
}
