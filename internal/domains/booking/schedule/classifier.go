package schedule

import (
	"time"

	"fleetops/internal/domains/booking/model"
)

type Classification string

const (
	ClassUpcoming Classification = "upcoming"
	ClassActive   Classification = "active"
	ClassExcluded Classification = "excluded"
)

// Policy decides whether Pending bookings may appear as upcoming.
type Policy int

const (
	PolicyAcceptedOnly Policy = iota
	PolicyAcceptedOrPending
)

func (p Policy) String() string {
	if p == PolicyAcceptedOrPending {
		return "accepted_or_pending"
	}

	return "accepted_only"
}

// Classify buckets a booking for display. Only Accepted bookings can be
// active; Declined bookings are always excluded.
func Classify(status model.Status, instant, now time.Time, policy Policy) Classification {
	switch status {
	case model.StatusAccepted:
		if instant.After(now) {
			return ClassUpcoming
		}

		return ClassActive
	case model.StatusPending:
		if policy == PolicyAcceptedOrPending && instant.After(now) {
			return ClassUpcoming
		}

		return ClassExcluded
	default:
		return ClassExcluded
	}
}
