package model

import "fleetops/shared/model"

const (
	TableName  = "booking_transitions"
	EntityName = "transition"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldOutcome   = "outcome"
)

// Outcome records how a transition attempt ended.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeStale   Outcome = "stale"
	OutcomeFailed  Outcome = "failed"
)

type Transition struct {
	ID         string  `db:"id"`
	BookingID  string  `db:"booking_id"`
	Action     string  `db:"action"`
	Outcome    Outcome `db:"outcome"`
	FromStatus string  `db:"from_status"`
	ToStatus   string  `db:"to_status"`
	Reason     string  `db:"reason"`
	ActorID    string  `db:"actor_id"`
	ActorRole  string  `db:"actor_role"`
	model.Audit
}
