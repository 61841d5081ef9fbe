// Package dates holds the calendar types the front desk works in: day-granular
// dates ("2006-01-02") for admissions and 24h "HH:MM" strings for appointment
// slots.
package dates

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// Layout is the ISO-8601 date layout used on the wire and in storage.
	Layout = "2006-01-02"
	// ClockLayout is the 24h slot time layout.
	ClockLayout = "15:04"
)

// Date is a calendar day with no time-of-day component, pinned to UTC.
type Date struct {
	t time.Time
}

// New builds a Date from year, month and day.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Parse parses an ISO-8601 date string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected %s", s, Layout)
	}
	return Date{t: t.UTC()}, nil
}

// FromTime truncates t to its calendar day in UTC.
func FromTime(t time.Time) Date {
	u := t.UTC()
	return New(u.Year(), u.Month(), u.Day())
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	return d.t.Format(Layout)
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// MarshalJSON encodes the date as a quoted ISO-8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON decodes a quoted ISO-8601 string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("invalid date JSON %s", b)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseClock validates a 24h "HH:MM" string and returns it as minutes past
// midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected %s", s, ClockLayout)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ClockOf formats t's time-of-day as "HH:MM" in UTC.
func ClockOf(t time.Time) string {
	return t.UTC().Format(ClockLayout)
}
