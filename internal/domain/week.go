package domain

import (
	"fmt"
	"time"
)

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// PreviousWeekRange resolves the Monday-Sunday window immediately before
// the week containing now. Sunday counts as day 7 of its week, so on a
// Sunday the resolved range is still the fully elapsed previous week.
func PreviousWeekRange(now time.Time) WeekInfo {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := time.Date(now.Year(), now.Month(), now.Day()-(weekday-1)-7, 0, 0, 0, 0, now.Location())
	sunday := monday.AddDate(0, 0, 6)
	return WeekInfo{
		StartDate:  monday.Format(DateLayout),
		EndDate:    sunday.Format(DateLayout),
		WeekNumber: WeekNumber(monday),
	}
}

// WeekNumber approximates the week-of-year ordinal: days elapsed since
// Jan 1 plus Jan 1's weekday offset, divided by 7, rounded up. Not strict
// ISO-8601 at year boundaries.
func WeekNumber(d time.Time) int {
	jan1 := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, d.Location())
	pastDays := int(d.Sub(jan1).Hours() / 24)
	return (pastDays + int(jan1.Weekday()) + 1 + 6) / 7
}

// WorkingDays expands an inclusive date range into its Monday-Friday
// dates, ascending. A reversed range yields nil rather than an error.
func WorkingDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd >= time.Monday && wd <= time.Friday {
			days = append(days, d)
		}
	}
	return days
}

// DayName returns the English weekday name for a date.
func DayName(d time.Time) string {
	return d.Weekday().String()
}
