// Package plan defines the training-plan domain: civil dates, plan
// templates, materialized race plans, and the pure transformations on them.
package plan

import (
	"fmt"
	"time"
)

// Date is a civil calendar date without a time zone. It is comparable, so it
// can key maps and participate in structural plan equality.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// DateOf truncates t to its civil date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d. Negative n counts backward.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Sub returns the number of days from o to d.
func (d Date) Sub(o Date) int {
	return int(d.Time().Sub(o.Time()) / (24 * time.Hour))
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Before reports whether d falls before o.
func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

// After reports whether d falls after o.
func (d Date) After(o Date) bool {
	return d.Time().After(o.Time())
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// MarshalText implements encoding.TextMarshaler so Date works as a JSON
// value and map key.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WeekStart identifies the weekday a plan week begins on. The values match
// time.Weekday for the three supported conventions.
type WeekStart int

// Supported week-start conventions.
const (
	WeekStartSunday   WeekStart = WeekStart(time.Sunday)
	WeekStartMonday   WeekStart = WeekStart(time.Monday)
	WeekStartSaturday WeekStart = WeekStart(time.Saturday)
)

// ParseWeekStart maps a name or numeric code (0/1/6) to a WeekStart.
func ParseWeekStart(s string) (WeekStart, error) {
	switch s {
	case "sunday", "0":
		return WeekStartSunday, nil
	case "monday", "1":
		return WeekStartMonday, nil
	case "saturday", "6":
		return WeekStartSaturday, nil
	}
	return WeekStartMonday, fmt.Errorf("invalid week start %q (want sunday, monday, or saturday)", s)
}

// Weekday returns the weekday the week begins on.
func (w WeekStart) Weekday() time.Weekday {
	return time.Weekday(w)
}

// Valid reports whether w is one of the supported conventions.
func (w WeekStart) Valid() bool {
	switch w {
	case WeekStartSunday, WeekStartMonday, WeekStartSaturday:
		return true
	}
	return false
}

func (w WeekStart) String() string {
	return w.Weekday().String()
}

// DayOffset returns how many days into a week the given weekday falls under
// this convention (0..6).
func (w WeekStart) DayOffset(day time.Weekday) int {
	return (7 + int(day) - int(w)) % 7
}

// EndOfWeek returns the last day of the week containing d under the given
// convention. For a Monday start the week ends on Sunday.
func EndOfWeek(d Date, ws WeekStart) Date {
	return d.AddDays(6 - ws.DayOffset(d.Weekday()))
}

// StartOfWeek returns the first day of the week containing d.
func StartOfWeek(d Date, ws WeekStart) Date {
	return d.AddDays(-ws.DayOffset(d.Weekday()))
}
