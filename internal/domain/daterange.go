package domain

import (
	"fmt"

	"github.com/teambition/rrule-go"
)

// RangeKind names a span of consecutive days starting at a date.
type RangeKind string

const (
	RangeDay       RangeKind = "day"
	RangeThreeDay  RangeKind = "3-day"
	RangeWeek      RangeKind = "1-week"
	RangeTwoWeek   RangeKind = "2-week"
	RangeThreeWeek RangeKind = "3-week"
	RangeMonth     RangeKind = "month"
)

// RangeKinds lists the supported kinds in increasing length.
var RangeKinds = []RangeKind{RangeDay, RangeThreeDay, RangeWeek, RangeTwoWeek, RangeThreeWeek, RangeMonth}

// ParseRangeKind maps a wire value to a RangeKind. The empty string means RangeDay.
func ParseRangeKind(s string) (RangeKind, error) {
	if s == "" {
		return RangeDay, nil
	}
	for _, k := range RangeKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRange, s)
}

// DateRange is an inclusive run of calendar dates.
type DateRange struct {
	Start CalendarDate
	End   CalendarDate
	Kind  RangeKind
}

// NewDateRange builds the range of the given kind that begins on start.
// A month range ends the day before the same day of the following month.
func NewDateRange(start CalendarDate, kind RangeKind) (DateRange, error) {
	if err := start.Validate(); err != nil {
		return DateRange{}, err
	}
	var end CalendarDate
	switch kind {
	case RangeDay, "":
		kind = RangeDay
		end = start
	case RangeThreeDay:
		end = start.AddDays(2)
	case RangeWeek:
		end = start.AddDays(6)
	case RangeTwoWeek:
		end = start.AddDays(13)
	case RangeThreeWeek:
		end = start.AddDays(20)
	case RangeMonth:
		end = DateOf(start.Midnight().AddDate(0, 1, -1))
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidRange, kind)
	}
	return DateRange{Start: start, End: end, Kind: kind}, nil
}

// Dates expands the range into its individual days, in order.
func (r DateRange) Dates() ([]CalendarDate, error) {
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: r.Start.Midnight(),
		Until:   r.End.Midnight(),
	})
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", r, err)
	}
	occurrences := rule.All()
	dates := make([]CalendarDate, 0, len(occurrences))
	for _, t := range occurrences {
		dates = append(dates, DateOf(t))
	}
	return dates, nil
}

// Days returns the number of dates in the range.
func (r DateRange) Days() int {
	return int(r.End.Midnight().Sub(r.Start.Midnight()).Hours()/24) + 1
}

// Next returns the range of the same kind beginning the day after r ends.
func (r DateRange) Next() DateRange {
	next, _ := NewDateRange(r.End.AddDays(1), r.Kind)
	return next
}

// Prev returns the range of the same kind that ends just before r starts.
// For months it steps back one calendar month.
func (r DateRange) Prev() DateRange {
	var start CalendarDate
	if r.Kind == RangeMonth {
		start = DateOf(r.Start.Midnight().AddDate(0, -1, 0))
	} else {
		start = r.Start.AddDays(-r.Days())
	}
	prev, _ := NewDateRange(start, r.Kind)
	return prev
}

func (r DateRange) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return fmt.Sprintf("%s to %s", r.Start, r.End)
}
