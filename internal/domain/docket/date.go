package docket

import (
	"time"

	"github.com/turtacn/LexDocket/pkg/errors"
)

// DateLayout is the wire format for calendar dates.  All deadline arithmetic
// is civil-calendar: date-only, no time component, no timezone ambiguity.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD) into a normalized
// UTC-midnight time.Time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Newf(errors.ErrCodeInvalidDate, "invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a date in ISO-8601 calendar form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate truncates t to UTC midnight so that dates compare by equality
// regardless of how they were constructed.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
