package model

import (
	"errors"
	"fmt"
)

const (
	EntityName = "booking"

	FieldID     = "id"
	FieldStatus = "status"
	FieldKind   = "kind"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusAccepted Status = "Accepted"
	StatusDeclined Status = "Declined"
)

// Kind discriminates inspection bookings from cargo (voyage) bookings.
type Kind string

const (
	KindInspection Kind = "inspection"
	KindCargo      Kind = "cargo"
)

// Event returns the noun used when the scheduled event has begun.
func (k Kind) Event() string {
	if k == KindCargo {
		return "Voyage"
	}

	return "Survey"
}

type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
)

// Target is the status a successful action leaves the booking in.
func (a Action) Target() Status {
	if a == ActionDecline {
		return StatusDeclined
	}

	return StatusAccepted
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusPending:  {StatusAccepted: true, StatusDeclined: true},
	StatusAccepted: {},
	StatusDeclined: {},
}

func CanTransition(from, to Status) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}

	return next[to]
}

type VesselRef struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

type ActorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

type Booking struct {
	ID            string    `json:"id"            validate:"required"`
	Kind          Kind      `json:"kind"          validate:"omitempty,oneof=inspection cargo"`
	Status        Status    `json:"status"        validate:"required,oneof=Pending Accepted Declined"`
	VesselRef     VesselRef `json:"vesselRef"`
	Counterpart   *ActorRef `json:"counterpart,omitempty"`
	Requester     ActorRef  `json:"requester"`
	ScheduledDate string    `json:"scheduledDate" validate:"required"`
	ScheduledTime string    `json:"scheduledTime,omitempty"`

	SurveyType string `json:"surveyType,omitempty"`
	Location   string `json:"location,omitempty"`

	CargoType       string `json:"cargoType,omitempty"`
	DeparturePort   string `json:"departurePort,omitempty"`
	DestinationPort string `json:"destinationPort,omitempty"`
}

// CounterpartName is the assignee's display name, or "Unassigned".
func (b Booking) CounterpartName() string {
	if b.Counterpart == nil || b.Counterpart.Name == "" {
		return "Unassigned"
	}

	return b.Counterpart.Name
}

// Actor identifies the caller a booking collection is scoped to.
type Actor struct {
	ID   string
	Role string
}

var ErrBookingNotFound = errors.New("booking not found")

// StaleTransitionError reports that the booking is no longer Pending,
// either in the caller's last known collection or at the record store.
type StaleTransitionError struct {
	BookingID string
	Action    Action
	Status    Status
}

func (e *StaleTransitionError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("cannot %s booking %s: already %s", e.Action, e.BookingID, e.Status)
	}

	return fmt.Sprintf("cannot %s booking %s: already responded to", e.Action, e.BookingID)
}

// TransitionFailedError wraps any other failure of a transition. Reason is the
// record store's message when it supplied one.
type TransitionFailedError struct {
	BookingID string
	Action    Action
	Reason    string
	Err       error
}

func (e *TransitionFailedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("failed to %s booking %s: %s", e.Action, e.BookingID, e.Reason)
	}

	return fmt.Sprintf("failed to %s booking %s", e.Action, e.BookingID)
}

func (e *TransitionFailedError) Unwrap() error {
	return e.Err
}
