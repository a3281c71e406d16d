package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire form of a CalendarDate.
const DateLayout = "2006-01-02"

// CalendarDate is a civil Gregorian date without time of day.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCalendarDate returns a validated CalendarDate.
func NewCalendarDate(year int, month time.Month, day int) (CalendarDate, error) {
	d := CalendarDate{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return CalendarDate{}, err
	}
	return d, nil
}

// ParseCalendarDate parses a YYYY-MM-DD string.
func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q: use YYYY-MM-DD", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Validate rejects dates that do not exist, such as February 30 or
// February 29 outside a leap year.
func (d CalendarDate) Validate() error {
	if d.Year < 1 || d.Year > 9999 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidDate, d.Year)
	}
	if d.Month < time.January || d.Month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidDate, int(d.Month))
	}
	// time.Date normalizes overflowing days into the next month.
	if d.Day < 1 || DateOf(d.Midnight()) != d {
		return fmt.Errorf("%w: %04d-%02d-%02d does not exist", ErrInvalidDate, d.Year, int(d.Month), d.Day)
	}
	return nil
}

// Midnight returns 00:00 UTC on d.
func (d CalendarDate) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (n may be negative).
func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(d.Midnight().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.Midnight().Before(other.Midnight())
}

// After reports whether d is strictly later than other.
func (d CalendarDate) After(other CalendarDate) bool {
	return d.Midnight().After(other.Midnight())
}

func (d CalendarDate) String() string {
	return d.Midnight().Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *CalendarDate) UnmarshalText(b []byte) error {
	parsed, err := ParseCalendarDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CheckWindow rejects d when it lies more than window before or after the
// calendar date of now. A non-positive window disables the check.
func CheckWindow(d CalendarDate, now time.Time, window time.Duration) error {
	if window <= 0 {
		return nil
	}
	today := DateOf(now.UTC())
	days := int(window / (24 * time.Hour))
	if earliest := today.AddDays(-days); d.Before(earliest) {
		return fmt.Errorf("%w: %s is before %s", ErrDateOutOfWindow, d, earliest)
	}
	if latest := today.AddDays(days); d.After(latest) {
		return fmt.Errorf("%w: %s is after %s", ErrDateOutOfWindow, d, latest)
	}
	return nil
}
