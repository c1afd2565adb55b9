package internal

import "time"

const DayFormat = "2006-01-02"

// NormalizeDay strips the time-of-day component, keeping the calendar date in
// UTC. All dates are normalized at system boundaries so comparisons are plain
// arithmetic.
func NormalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func SameDay(a, b time.Time) bool {
	return NormalizeDay(a).Equal(NormalizeDay(b))
}

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	d := NormalizeDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of the calendar month containing t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

func FormatDay(t time.Time) string {
	return NormalizeDay(t).Format(DayFormat)
}
