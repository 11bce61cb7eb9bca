package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidTime = errors.New("invalid time")
)

// TimeFormat tags which notation a time-of-day string was written in.
type TimeFormat int

const (
	TimeAbsent TimeFormat = iota
	TimeAmPm
	TimeTwentyFourHour
)

func (f TimeFormat) String() string {
	switch f {
	case TimeAmPm:
		return "12h"
	case TimeTwentyFourHour:
		return "24h"
	default:
		return "absent"
	}
}

// TimeOfDay is a parsed time string. Hour is always on the 24-hour clock.
type TimeOfDay struct {
	Format TimeFormat
	Hour   int
	Minute int
}

const (
	meridiemAM = "AM"
	meridiemPM = "PM"

	hoursPerHalfDay = 12
)

// ParseTimeOfDay accepts "H:MM AM", "H:MM PM" (meridiem in any case, space
// optional) and "HH:MM" with an optional ":SS" that is ignored. Blank text
// yields TimeAbsent.
func ParseTimeOfDay(text string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return TimeOfDay{Format: TimeAbsent}, nil
	}

	upper := strings.ToUpper(trimmed)

	meridiem := ""
	if strings.HasSuffix(upper, meridiemAM) || strings.HasSuffix(upper, meridiemPM) {
		meridiem = upper[len(upper)-2:]
		upper = strings.TrimSpace(upper[:len(upper)-2])
	}

	parts := strings.Split(upper, ":")

	if meridiem != "" {
		if len(parts) != 2 {
			return TimeOfDay{}, invalidTime(text)
		}

		return parseAmPm(text, parts[0], parts[1], meridiem)
	}

	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, invalidTime(text)
	}

	if len(parts) == 3 {
		if _, ok := parseUnit(parts[2], 2, 2, 0, 59); !ok {
			return TimeOfDay{}, invalidTime(text)
		}
	}

	hour, ok := parseUnit(parts[0], 1, 2, 0, 23)
	if !ok {
		return TimeOfDay{}, invalidTime(text)
	}

	minute, ok := parseUnit(parts[1], 2, 2, 0, 59)
	if !ok {
		return TimeOfDay{}, invalidTime(text)
	}

	return TimeOfDay{Format: TimeTwentyFourHour, Hour: hour, Minute: minute}, nil
}

func parseAmPm(text, hourText, minuteText, meridiem string) (TimeOfDay, error) {
	hour, ok := parseUnit(hourText, 1, 2, 1, hoursPerHalfDay)
	if !ok {
		return TimeOfDay{}, invalidTime(text)
	}

	minute, ok := parseUnit(minuteText, 2, 2, 0, 59)
	if !ok {
		return TimeOfDay{}, invalidTime(text)
	}

	switch {
	case meridiem == meridiemPM && hour != hoursPerHalfDay:
		hour += hoursPerHalfDay
	case meridiem == meridiemAM && hour == hoursPerHalfDay:
		hour = 0
	}

	return TimeOfDay{Format: TimeAmPm, Hour: hour, Minute: minute}, nil
}

// parseUnit reads an all-digit field of minLen..maxLen characters within [lo, hi].
func parseUnit(field string, minLen, maxLen, lo, hi int) (int, bool) {
	if len(field) < minLen || len(field) > maxLen {
		return 0, false
	}

	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	value, err := strconv.Atoi(field)
	if err != nil || value < lo || value > hi {
		return 0, false
	}

	return value, true
}

func invalidTime(text string) error {
	return fmt.Errorf("%w: %q", ErrInvalidTime, text)
}
