// Package timeutil provides calendar-date helpers for the journal.
// Grade dates are plain calendar days; they are stored and compared
// as midnight UTC so that a date never shifts with the server timezone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates (ISO 8601, YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Date creates a calendar day (midnight UTC).
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// StartOfDay drops the clock part of t, keeping its calendar day
// as seen in t's own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar day.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", value, DateLayout)
	}
	return t, nil
}

// FormatDate formats a calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// InRange reports whether day lies within [from, to]. A zero bound is open.
func InRange(day, from, to time.Time) bool {
	d := StartOfDay(day)
	if !from.IsZero() && d.Before(StartOfDay(from)) {
		return false
	}
	if !to.IsZero() && d.After(StartOfDay(to)) {
		return false
	}
	return true
}
