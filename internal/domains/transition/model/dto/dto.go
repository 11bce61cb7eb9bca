package dto

import (
	"net/http"
	"strings"
	"time"

	"fleetops/internal/domains/transition/model"
	"fleetops/shared"
	"fleetops/shared/constant"
	gDto "fleetops/shared/dto"
	gModel "fleetops/shared/model"
	"fleetops/shared/timezone"

	"github.com/google/uuid"
)

type RecordTransitionRequest struct {
	BookingID  string        `validate:"required"`
	Action     string        `validate:"required,oneof=accept decline"`
	Outcome    model.Outcome `validate:"required,oneof=applied stale failed"`
	FromStatus string
	ToStatus   string
	Reason     string
	ActorID    string `validate:"required"`
	ActorRole  string `validate:"required,role"`
}

func (r *RecordTransitionRequest) ToModel() model.Transition {
	return model.Transition{
		ID:         uuid.NewString(),
		BookingID:  r.BookingID,
		Action:     r.Action,
		Outcome:    r.Outcome,
		FromStatus: r.FromStatus,
		ToStatus:   r.ToStatus,
		Reason:     r.Reason,
		ActorID:    r.ActorID,
		ActorRole:  r.ActorRole,
		Audit: gModel.Audit{
			CreatedAt: timezone.Now(),
			CreatedBy: r.ActorID,
		},
	}
}

// GetTransitionsRequest pages through one booking's journal, optionally
// narrowed to some outcomes and to attempts made at or after Since.
type GetTransitionsRequest struct {
	gDto.QueryParams
	Outcomes []string `json:"outcome" validate:"omitempty,dive,oneof=applied stale failed"`
	Since    string   `json:"since"   validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (r *GetTransitionsRequest) FromRequest(req *http.Request) {
	r.QueryParams.FromRequest(req, true)

	query := req.URL.Query()

	if outcome := query.Get(constant.RequestParamOutcome); outcome != constant.Empty {
		r.Outcomes = strings.Split(outcome, constant.Comma)
	}

	r.Since = query.Get(constant.RequestParamSince)
}

// Filter scopes the journal to bookingID and the requested outcomes and start.
func (r GetTransitionsRequest) Filter(bookingID string) gDto.FilterGroup {
	group := gDto.FilterGroup{
		Operator: gDto.GroupAnd,
		Filters: []gDto.Filter{
			{Table: model.TableName, Field: model.FieldBookingID, Operator: gDto.OperatorEq, Value: bookingID},
		},
	}

	if len(r.Outcomes) > 0 {
		group.Filters = append(group.Filters, gDto.Filter{
			Table:    model.TableName,
			Field:    model.FieldOutcome,
			Operator: gDto.OperatorIn,
			Value:    r.Outcomes,
		})
	}

	if since, err := time.Parse(time.RFC3339, r.Since); err == nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Table:    model.TableName,
			Field:    constant.FieldCreatedAt,
			ArgName:  constant.RequestParamSince,
			Operator: gDto.OperatorGreaterEq,
			Value:    since,
		})
	}

	return group
}

// CacheParts identifies the filter in cache keys; empty parts are dropped.
func (r GetTransitionsRequest) CacheParts(bookingID string) []string {
	return []string{bookingID, strings.Join(r.Outcomes, constant.Comma), r.Since}
}

type TransitionResponse struct {
	ID         string `json:"id"`
	BookingID  string `json:"booking_id"`
	Action     string `json:"action"`
	Outcome    string `json:"outcome"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status,omitempty"`
	Reason     string `json:"reason,omitempty"`
	ActorID    string `json:"actor_id"`
	ActorRole  string `json:"actor_role"`
	gDto.Audit
}

func (r *TransitionResponse) FromModel(model model.Transition) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.Action = model.Action
	r.Outcome = string(model.Outcome)
	r.FromStatus = model.FromStatus
	r.ToStatus = model.ToStatus
	r.Reason = model.Reason
	r.ActorID = model.ActorID
	r.ActorRole = model.ActorRole
	r.Audit.FromModel(model.Audit)
}

type GetTransitionsResponse struct {
	Transitions []TransitionResponse `json:"transitions"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetTransitionsResponse) FromModels(models []model.Transition, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Transitions = make([]TransitionResponse, len(models))
	for i, m := range models {
		r.Transitions[i].FromModel(m)
	}
}
