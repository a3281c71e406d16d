package domain

import "errors"

var (
	// ErrInvalidLocation reports a latitude or longitude outside its valid range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidDate reports a date that does not parse or does not exist
	// in the Gregorian calendar.
	ErrInvalidDate = errors.New("invalid date")

	// ErrDateOutOfWindow reports a valid date that falls outside the window a
	// caller accepts around today. The engine never returns it.
	ErrDateOutOfWindow = errors.New("date out of accepted window")

	// ErrInvalidRange reports an unknown date range kind.
	ErrInvalidRange = errors.New("invalid date range")
)
