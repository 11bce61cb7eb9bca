package schedule

import (
	"fmt"
	"strings"
	"time"
)

type Urgency string

const (
	UrgencyNeutral  Urgency = "neutral"
	UrgencyNormal   Urgency = "normal"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
)

const (
	LabelNoDate      = "No date set"
	LabelInvalidDate = "Invalid date/time"

	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour

	warningWindow = 24 * time.Hour
)

type Countdown struct {
	Label     string        `json:"label"`
	Urgency   Urgency       `json:"urgency"`
	Remaining time.Duration `json:"-"`
}

// CountdownInput is the raw date/time pair of one booking row. Event is the
// noun shown once the instant has passed ("Survey", "Voyage").
type CountdownInput struct {
	Date  string
	Time  string
	Event string
}

// Countdown resolves the input and describes the time left until it.
func (r Resolver) Countdown(input CountdownInput, now time.Time) Countdown {
	if strings.TrimSpace(input.Date) == "" {
		return Countdown{Label: LabelNoDate, Urgency: UrgencyNeutral}
	}

	instant, ok := r.ResolveLenient(input.Date, input.Time)
	if !ok {
		return Countdown{Label: LabelInvalidDate, Urgency: UrgencyNeutral}
	}

	return CountdownUntil(instant, now, input.Event)
}

func CountdownUntil(instant, now time.Time, event string) Countdown {
	remaining := instant.Sub(now)
	if remaining <= 0 {
		return Countdown{Label: event + " started", Urgency: UrgencyNeutral}
	}

	return Countdown{
		Label:     FormatRemaining(remaining),
		Urgency:   UrgencyFor(remaining),
		Remaining: remaining,
	}
}

// FormatRemaining truncates to whole seconds and prints the largest unit pair.
func FormatRemaining(remaining time.Duration) string {
	total := int64(remaining / time.Second)

	days := total / secondsPerDay
	hours := total % secondsPerDay / secondsPerHour
	minutes := total % secondsPerHour / secondsPerMinute
	seconds := total % secondsPerMinute

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

func UrgencyFor(remaining time.Duration) Urgency {
	switch {
	case remaining <= time.Hour:
		return UrgencyCritical
	case remaining <= warningWindow:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}
