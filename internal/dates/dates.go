// Package dates holds the calendar-date helpers shared by the engine, the
// store and the CLI. Dates are whole days: a time.Time at UTC midnight whose
// year/month/day are the local calendar date it stands for.
package dates

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the only accepted on-disk and on-wire date format.
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

var (
	ErrDateFormat  = errors.New("invalid date")
	ErrOutOfRange  = errors.New("date out of range")
	ErrFrequency   = errors.New("invalid frequency")
	ErrSeenEarlier = errors.New("already seen more recently")
	ErrSeenFuture  = errors.New("cannot record in the future")
)

// The stored YYYY-MM-DD form bounds the range of representable dates.
var (
	minDate = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

	minDay = unixDay(minDate)
	maxDay = unixDay(maxDate)
)

// Parse parses a strict YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not have format YYYY-MM-DD", ErrDateFormat, s)
	}
	return t, nil
}

// Format renders a date in Layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Civil strips the clock and zone from t, keeping its calendar date.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns t shifted by days calendar days. It fails instead of
// wrapping when the result leaves 0000-01-01..9999-12-31.
func AddDays(t time.Time, days int64) (time.Time, error) {
	start := unixDay(Civil(t))
	if start < minDay || start > maxDay {
		return time.Time{}, fmt.Errorf("%w: %s", ErrOutOfRange, Format(t))
	}
	// Bounding days first keeps start+days from overflowing int64.
	if days > maxDay-minDay || days < minDay-maxDay {
		return time.Time{}, fmt.Errorf("%w: %s + %d days", ErrOutOfRange, Format(t), days)
	}
	end := start + days
	if end < minDay || end > maxDay {
		return time.Time{}, fmt.Errorf("%w: %s + %d days", ErrOutOfRange, Format(t), days)
	}
	return time.Unix(end*secondsPerDay, 0).UTC(), nil
}

// DaysBetween returns to - from in whole calendar days.
//
// time.Duration saturates at roughly 292 years, so the difference is taken
// on day numbers instead of with Sub.
func DaysBetween(from, to time.Time) int64 {
	return unixDay(Civil(to)) - unixDay(Civil(from))
}

// MaxSpanDays is the widest day span AddDays can ever accept.
func MaxSpanDays() int64 {
	return maxDay - minDay
}

func unixDay(t time.Time) int64 {
	s := t.Unix()
	d := s / secondsPerDay
	if s%secondsPerDay < 0 {
		d--
	}
	return d
}
