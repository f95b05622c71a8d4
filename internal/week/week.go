package week

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Start returns Monday 00:00 of the week containing t, in t's location.
func Start(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	// Sunday is 0, weeks start on Monday
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Parse reads a "2006-01-02" date and returns the start of its week (UTC).
func Parse(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse week date [%s]: %w", date, err)
	}
	return Start(t), nil
}

// Range returns the half-open interval [start, start+7d) of the week containing t.
func Range(t time.Time) (time.Time, time.Time) {
	start := Start(t)
	return start, start.AddDate(0, 0, 7)
}

func Format(t time.Time) string {
	return Start(t).Format(DateLayout)
}
