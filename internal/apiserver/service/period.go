package service

import (
	"time"

	"github.com/palko-app/rentmanager/internal/apiserver/database"
)

// InReadingPeriod reports whether day falls within the inclusive
// day-of-month window [startDay, endDay]. A window with startDay >
// endDay wraps the month boundary: 25 through 5 covers the end of one
// month and the start of the next. Equal bounds mean a single day.
func InReadingPeriod(startDay, endDay, day int) bool {
	if startDay <= endDay {
		return startDay <= day && day <= endDay
	}
	return day >= startDay || day <= endDay
}

// MeterInPeriod reports whether the given date falls inside the meter
// type's reading window.
func MeterInPeriod(mt *database.MeterType, date time.Time) bool {
	return InReadingPeriod(mt.ReadingDayStart, mt.ReadingDayEnd, date.Day())
}

// DateOnly normalizes a timestamp to its calendar date, stored as
// midnight UTC so equality and uniqueness behave the same across
// database drivers.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
