package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"fleetops/shared/dto"
	"fleetops/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestAuditFromModel(t *testing.T) {
	var audit dto.Audit

	audit.FromModel(model.Audit{
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		CreatedBy: "u-surveyor",
	})

	assert.Equal(t, "2025-03-14T09:30:00Z", audit.CreatedAt)
	assert.Equal(t, "u-surveyor", audit.CreatedBy)
}

func TestQueryParamsFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		defaults bool
		want     dto.QueryParams
	}{
		{
			name:  "all parameters",
			query: "?page=2&limit=20&sort_by=outcome&sort_dir=asc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "outcome", SortDir: dto.SortDirAsc},
		},
		{
			name:     "defaults fill page and limit",
			query:    "?sort_dir=DESC",
			defaults: true,
			want:     dto.QueryParams{Page: 1, Limit: 10, SortDir: dto.SortDirDesc},
		},
		{
			name:  "no defaults leaves zero values",
			query: "",
			want:  dto.QueryParams{},
		},
		{
			name:     "unparseable values are ignored",
			query:    "?page=first&limit=-5&sort_dir=sideways",
			defaults: true,
			want:     dto.QueryParams{Page: 1, Limit: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var params dto.QueryParams

			params.FromRequest(httptest.NewRequest("GET", "/v1/bookings/b-1/transitions"+tt.query, nil), tt.defaults)

			assert.Equal(t, tt.want, params)
		})
	}
}

func TestFilterClause(t *testing.T) {
	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   dto.Filter
		wantSQL  string
		wantArgs map[string]any
	}{
		{
			name:     "equals",
			filter:   dto.Filter{Table: "booking_transitions", Field: "booking_id", Operator: dto.OperatorEq, Value: "b-1"},
			wantSQL:  "booking_transitions.booking_id = :booking_id",
			wantArgs: map[string]any{"booking_id": "b-1"},
		},
		{
			name:     "range with arg name",
			filter:   dto.Filter{Field: "created_at", ArgName: "since", Operator: dto.OperatorGreaterEq, Value: since},
			wantSQL:  "created_at >= :since",
			wantArgs: map[string]any{"since": since},
		},
		{
			name:     "in list",
			filter:   dto.Filter{Field: "outcome", Operator: dto.OperatorIn, Value: []string{"stale", "failed"}},
			wantSQL:  "outcome IN (:outcome_0, :outcome_1)",
			wantArgs: map[string]any{"outcome_0": "stale", "outcome_1": "failed"},
		},
		{
			name:     "empty in list matches nothing",
			filter:   dto.Filter{Field: "outcome", Operator: dto.OperatorIn, Value: []string{}},
			wantSQL:  "FALSE",
			wantArgs: map[string]any{},
		},
		{
			name:     "in needs a list",
			filter:   dto.Filter{Field: "outcome", Operator: dto.OperatorIn, Value: "stale"},
			wantSQL:  "",
			wantArgs: map[string]any{},
		},
		{
			name:     "unknown operator",
			filter:   dto.Filter{Field: "outcome", Operator: "LIKE", Value: "st%"},
			wantSQL:  "",
			wantArgs: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.filter.Clause()

			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroupClause(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []dto.Filter{
			{Field: "booking_id", Operator: dto.OperatorEq, Value: "b-1"},
			{Field: "reason", Operator: "LIKE", Value: "ignored"},
		},
		Groups: []dto.FilterGroup{
			{
				Operator: dto.GroupOr,
				Filters: []dto.Filter{
					{Field: "actor_role", ArgName: "role_a", Operator: dto.OperatorEq, Value: "surveyor"},
					{Field: "actor_role", ArgName: "role_b", Operator: dto.OperatorEq, Value: "admin"},
				},
			},
		},
	}

	sql, args := group.Clause()

	assert.Equal(t, "(booking_id = :booking_id AND (actor_role = :role_a OR actor_role = :role_b))", sql)
	assert.Equal(t, map[string]any{"booking_id": "b-1", "role_a": "surveyor", "role_b": "admin"}, args)

	sql, args = dto.FilterGroup{}.Clause()

	assert.Empty(t, sql)
	assert.Empty(t, args)
}
