package risk

import "time"

const maxAcademicWeek = 53

// AcademicCalendar maps timestamps onto academic years and week numbers.
type AcademicCalendar struct {
	StartMonth time.Month
}

// WeekOf returns the academic year (the calendar year it starts in) and the 1-based week number.
func (c AcademicCalendar) WeekOf(t time.Time) (year, week int) {
	start := c.StartMonth
	if start < time.January || start > time.December {
		start = time.September
	}
	t = t.UTC()
	year = t.Year()
	if t.Month() < start {
		year--
	}
	yearStart := time.Date(year, start, 1, 0, 0, 0, 0, time.UTC)
	days := int(t.Sub(yearStart).Hours() / 24)
	week = days/7 + 1
	if week > maxAcademicWeek {
		week = maxAcademicWeek
	}
	return year, week
}
