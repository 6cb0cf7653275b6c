package services

import "time"

const dayKeyLayout = "2006-01-02"

// Scheduled dates are date-only values: midnight UTC of the calendar day.
// A zone only decides which calendar day "now" falls on.

// CalendarDay returns the calendar day value falls on in location.
func CalendarDay(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return DateOnly(value.In(location))
}

// DateOnly keeps the wall-clock date of value and drops its time and zone.
func DateOnly(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DayRange returns [day, next day) for the date-only day.
func DayRange(day time.Time) (time.Time, time.Time) {
	start := DateOnly(day)
	return start, start.AddDate(0, 0, 1)
}

func DayKey(day time.Time) string {
	return DateOnly(day).Format(dayKeyLayout)
}

// StartOfDay returns the first instant of the date-only day in location. When
// a DST change skips local midnight that is the first hour that exists.
func StartOfDay(day time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, date := day.Date()
	for hour := 0; hour < 3; hour++ {
		start := time.Date(year, month, date, hour, 0, 0, 0, location)
		if y, m, d := start.Date(); y == year && m == month && d == date {
			return start
		}
	}
	return time.Date(year, month, date, 0, 0, 0, 0, location)
}
