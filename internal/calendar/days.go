// Package calendar provides the Gregorian calendar arithmetic used by the
// chart engine, the 24 solar-term table and the lunar date labels.
package calendar

import (
	"fmt"
	"time"

	"cloudeng.io/datetime"
)

// IsLeapYear reports whether year is a Gregorian leap year: divisible by 4
// and not by 100, or divisible by 400.
func IsLeapYear(year int) bool {
	return datetime.IsLeap(year)
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DaysInMonth returns the number of days in month (1–12) of year.
// It panics for months outside 1–12.
func DaysInMonth(year, month int) int {
	return int(datetime.DaysInMonth(year, datetime.Month(month)))
}

// ValidDate reports whether year/month/day name a real Gregorian date.
func ValidDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= DaysInMonth(year, month)
}

// DaysBeforeYear returns the number of days from January 1 of epoch to
// January 1 of year. It is negative when year precedes epoch.
func DaysBeforeYear(epoch, year int) int {
	return leapDaysBefore(year) - leapDaysBefore(epoch) + 365*(year-epoch)
}

// leapDaysBefore counts leap years in [1, year) with floored division, so
// the count stays consistent for years at or below zero.
func leapDaysBefore(year int) int {
	y := year - 1
	return floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400)
}

// DaysBeforeMonth returns the days in the full months of year preceding month.
func DaysBeforeMonth(year, month int) int {
	total := 0
	for m := 1; m < month; m++ {
		total += DaysInMonth(year, m)
	}
	return total
}

func floorDiv(a, n int) int {
	q := a / n
	if (a%n != 0) && ((a < 0) != (n < 0)) {
		q--
	}
	return q
}

// Date layouts accepted by ParseDate and ParseDateTime.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

var dateTimeLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseDateTime parses a zone-naive civil date/time. The result carries
// time.UTC as a placeholder location; only its wall-clock fields matter.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date/time %q: use YYYY-MM-DDTHH:MM[:SS]", s)
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime formats the wall-clock fields of t without a zone.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}
