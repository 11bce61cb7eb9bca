package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Resolver combines a booking's calendar date and time text into an instant
// in a fixed location.
type Resolver struct {
	location *time.Location
}

func NewResolver(location *time.Location) Resolver {
	if location == nil {
		location = time.UTC
	}

	return Resolver{location: location}
}

func (r Resolver) Location() *time.Location {
	return r.location
}

// Resolve returns ErrInvalidDate when the date cannot be read. When only the
// time text is malformed it returns ErrInvalidTime along with the date at
// local midnight, which callers use as the "no time set" fallback.
func (r Resolver) Resolve(date, timeText string) (time.Time, error) {
	day, err := r.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}

	tod, err := ParseTimeOfDay(timeText)
	if err != nil {
		return day, err
	}

	if tod.Format == TimeAbsent {
		return day, nil
	}

	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour, tod.Minute, 0, 0, r.location), nil
}

// ResolveLenient is Resolve with ErrInvalidTime absorbed. ok is false only for
// an unreadable date.
func (r Resolver) ResolveLenient(date, timeText string) (instant time.Time, ok bool) {
	instant, err := r.Resolve(date, timeText)
	if err != nil && !errors.Is(err, ErrInvalidTime) {
		return time.Time{}, false
	}

	return instant, true
}

// ParseDate reads an ISO date or date-time and returns local midnight of the
// calendar day it falls on in the resolver's location.
func (r Resolver) ParseDate(date string) (time.Time, error) {
	trimmed := strings.TrimSpace(date)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	if day, err := time.ParseInLocation(isoDate, trimmed, r.location); err == nil {
		return day, nil
	}

	for _, layout := range dateTimeLayouts {
		parsed, err := time.ParseInLocation(layout, trimmed, r.location)
		if err != nil {
			continue
		}

		local := parsed.In(r.location)

		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.location), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
}
