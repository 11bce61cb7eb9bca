package dto

import (
	"net/http"
	"sort"
	"time"

	"fleetops/internal/domains/booking/model"
	"fleetops/internal/domains/booking/schedule"
	"fleetops/shared"
	"fleetops/shared/constant"
)

type ListBookingsRequest struct {
	Kind           string `json:"kind"            validate:"omitempty,oneof=inspection cargo"`
	IncludePending *bool  `json:"include_pending"`
}

func (r *ListBookingsRequest) FromRequest(req *http.Request) {
	query := req.URL.Query()

	r.Kind = query.Get(constant.RequestParamKind)
	r.IncludePending = shared.ConvertStringToBool(query.Get(constant.RequestParamIncludePending))
}

// Policy picks the classifier policy. An explicit include_pending wins;
// otherwise cargo listings and cargo managers see pending bookings as upcoming.
func (r ListBookingsRequest) Policy(role string) schedule.Policy {
	if r.IncludePending != nil {
		if *r.IncludePending {
			return schedule.PolicyAcceptedOrPending
		}

		return schedule.PolicyAcceptedOnly
	}

	if model.Kind(r.Kind) == model.KindCargo || role == constant.RoleCargoManager {
		return schedule.PolicyAcceptedOrPending
	}

	return schedule.PolicyAcceptedOnly
}

type CountdownResponse struct {
	Label   string `json:"label"`
	Urgency string `json:"urgency"`
}

func (r *CountdownResponse) FromCountdown(countdown schedule.Countdown) {
	r.Label = countdown.Label
	r.Urgency = string(countdown.Urgency)
}

type BookingResponse struct {
	ID              string            `json:"id"`
	Kind            string            `json:"kind"`
	Status          string            `json:"status"`
	VesselName      string            `json:"vessel_name"`
	VesselNumber    string            `json:"vessel_number"`
	Counterpart     string            `json:"counterpart"`
	Requester       string            `json:"requester"`
	ScheduledDate   string            `json:"scheduled_date"`
	ScheduledTime   string            `json:"scheduled_time,omitempty"`
	ScheduledAt     string            `json:"scheduled_at,omitempty"`
	SurveyType      string            `json:"survey_type,omitempty"`
	Location        string            `json:"location,omitempty"`
	CargoType       string            `json:"cargo_type,omitempty"`
	DeparturePort   string            `json:"departure_port,omitempty"`
	DestinationPort string            `json:"destination_port,omitempty"`
	Classification  string            `json:"classification"`
	Countdown       CountdownResponse `json:"countdown"`

	instant time.Time
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.Kind = string(booking.Kind)
	r.Status = string(booking.Status)
	r.VesselName = booking.VesselRef.Name
	r.VesselNumber = booking.VesselRef.Number
	r.Counterpart = booking.CounterpartName()
	r.Requester = booking.Requester.Name
	r.ScheduledDate = booking.ScheduledDate
	r.ScheduledTime = booking.ScheduledTime
	r.SurveyType = booking.SurveyType
	r.Location = booking.Location
	r.CargoType = booking.CargoType
	r.DeparturePort = booking.DeparturePort
	r.DestinationPort = booking.DestinationPort
}

// CountdownInputFor builds the countdown input of a booking.
func CountdownInputFor(booking model.Booking) schedule.CountdownInput {
	return schedule.CountdownInput{
		Date:  booking.ScheduledDate,
		Time:  booking.ScheduledTime,
		Event: booking.Kind.Event(),
	}
}

type BookingBoardResponse struct {
	Upcoming    []BookingResponse `json:"upcoming"`
	Active      []BookingResponse `json:"active"`
	Policy      string            `json:"policy"`
	GeneratedAt string            `json:"generated_at"`
}

// FromModels classifies every booking at now and keeps the upcoming and active
// ones. Bookings whose date cannot be resolved have no instant to classify and
// are left out. Upcoming rows are ordered soonest first, active rows most
// recently started first.
func (r *BookingBoardResponse) FromModels(bookings []model.Booking, resolver schedule.Resolver, req ListBookingsRequest, role string, now time.Time) {
	policy := req.Policy(role)

	r.Upcoming = []BookingResponse{}
	r.Active = []BookingResponse{}
	r.Policy = policy.String()
	r.GeneratedAt = now.In(resolver.Location()).Format(constant.DateFormat)

	for _, booking := range bookings {
		if req.Kind != constant.Empty && string(booking.Kind) != req.Kind {
			continue
		}

		instant, ok := resolver.ResolveLenient(booking.ScheduledDate, booking.ScheduledTime)
		if !ok {
			continue
		}

		class := schedule.Classify(booking.Status, instant, now, policy)
		if class == schedule.ClassExcluded {
			continue
		}

		var row BookingResponse

		row.FromModel(booking)
		row.instant = instant
		row.ScheduledAt = instant.Format(constant.DateFormat)
		row.Classification = string(class)
		row.Countdown.FromCountdown(schedule.CountdownUntil(instant, now, booking.Kind.Event()))

		if class == schedule.ClassActive {
			r.Active = append(r.Active, row)
		} else {
			r.Upcoming = append(r.Upcoming, row)
		}
	}

	sort.SliceStable(r.Upcoming, func(i, j int) bool {
		return r.Upcoming[i].instant.Before(r.Upcoming[j].instant)
	})

	sort.SliceStable(r.Active, func(i, j int) bool {
		return r.Active[i].instant.After(r.Active[j].instant)
	})
}

// CountdownEvent is one frame of a countdown stream.
type CountdownEvent struct {
	BookingID string `json:"booking_id"`
	Label     string `json:"label"`
	Urgency   string `json:"urgency"`
	At        string `json:"at"`
}

// TransitionEvent is published after a transition is applied.
type TransitionEvent struct {
	BookingID  string `json:"booking_id"`
	Kind       string `json:"kind"`
	Action     string `json:"action"`
	Status     string `json:"status"`
	ActorID    string `json:"actor_id"`
	ActorRole  string `json:"actor_role"`
	OccurredAt string `json:"occurred_at"`
}

// StoreChangeEvent is what the record store publishes when bookings change
// outside this service.
type StoreChangeEvent struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
}
