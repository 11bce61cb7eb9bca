package booking_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fleetops/config"
	otelMocks "fleetops/infras/otel/mocks"
	bookingMocks "fleetops/internal/domains/booking/mocks"
	"fleetops/internal/domains/booking/model"
	"fleetops/internal/domains/booking/model/dto"
	"fleetops/internal/domains/booking/schedule"
	transitionMocks "fleetops/internal/domains/transition/mocks"
	transitionDto "fleetops/internal/domains/transition/model/dto"
	"fleetops/internal/handlers/booking"
	"fleetops/shared/constant"
	gDto "fleetops/shared/dto"
	"fleetops/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	surveyor = model.Actor{ID: "u-7", Role: constant.RoleSurveyor}
	now      = time.Date(2025, 3, 13, 15, 0, 0, 0, time.UTC)
)

type fixture struct {
	service     *bookingMocks.MockBookingService
	transitions *transitionMocks.MockTransitionService
	router      chi.Router
}

func newFixture(t *testing.T, clock schedule.Clock, actor *model.Actor) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.CountdownIntervalMs = 5

	service := bookingMocks.NewMockBookingService(ctrl)
	transitions := transitionMocks.NewMockTransitionService(ctrl)

	handler := booking.New(service, transitions, cfg, otelMocks.NewOtel()).WithClock(clock, time.UTC)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor != nil {
				ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, actor.ID)
				ctx = context.WithValue(ctx, constant.ContextKeyUserRole, actor.Role)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	})
	handler.Router(router)

	return fixture{service: service, transitions: transitions, router: router}
}

func fixedClock(at time.Time) schedule.Clock {
	return schedule.ClockFunc(func() time.Time { return at })
}

func (f fixture) do(method, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, httptest.NewRequest(method, target, nil))

	return recorder
}

func decodeBoard(t *testing.T, recorder *httptest.ResponseRecorder) dto.BookingBoardResponse {
	t.Helper()

	var body struct {
		Data dto.BookingBoardResponse `json:"data"`
	}

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body.Data
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body.Error
}

func sampleBookings() []model.Booking {
	return []model.Booking{
		{ID: "b-later", Kind: model.KindInspection, Status: model.StatusAccepted, ScheduledDate: "2025-03-20", ScheduledTime: "10:00"},
		{ID: "b-soon", Kind: model.KindInspection, Status: model.StatusAccepted, ScheduledDate: "2025-03-14", ScheduledTime: "9:00 AM"},
		{ID: "b-started", Kind: model.KindInspection, Status: model.StatusAccepted, ScheduledDate: "2025-03-12", ScheduledTime: "08:00"},
		{ID: "b-pending", Kind: model.KindInspection, Status: model.StatusPending, ScheduledDate: "2025-03-15"},
		{ID: "b-declined", Kind: model.KindInspection, Status: model.StatusDeclined, ScheduledDate: "2025-03-15"},
		{ID: "b-voyage", Kind: model.KindCargo, Status: model.StatusAccepted, ScheduledDate: "2025-03-16"},
		{ID: "b-undated", Kind: model.KindInspection, Status: model.StatusAccepted, ScheduledDate: "soon"},
	}
}

func ids(rows []dto.BookingResponse) []string {
	res := make([]string, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.ID)
	}

	return res
}

func TestHandler_GetBookings(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantUpcoming []string
		wantActive   []string
		wantPolicy   string
	}{
		{
			name:         "surveyor default hides pending",
			query:        "",
			wantUpcoming: []string{"b-soon", "b-voyage", "b-later"},
			wantActive:   []string{"b-started"},
			wantPolicy:   schedule.PolicyAcceptedOnly.String(),
		},
		{
			name:         "include pending",
			query:        "?include_pending=true",
			wantUpcoming: []string{"b-soon", "b-pending", "b-voyage", "b-later"},
			wantActive:   []string{"b-started"},
			wantPolicy:   schedule.PolicyAcceptedOrPending.String(),
		},
		{
			name:         "cargo only",
			query:        "?kind=cargo",
			wantUpcoming: []string{"b-voyage"},
			wantActive:   []string{},
			wantPolicy:   schedule.PolicyAcceptedOrPending.String(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := surveyor
			f := newFixture(t, fixedClock(now), &actor)

			f.service.EXPECT().GetAll(gomock.Any(), surveyor).Return(sampleBookings(), nil)

			recorder := f.do(http.MethodGet, "/bookings"+tt.query)

			require.Equal(t, http.StatusOK, recorder.Code)

			board := decodeBoard(t, recorder)
			assert.Equal(t, tt.wantUpcoming, ids(board.Upcoming))
			assert.Equal(t, tt.wantActive, ids(board.Active))
			assert.Equal(t, tt.wantPolicy, board.Policy)
		})
	}
}

func TestHandler_GetBookingsRowCountdown(t *testing.T) {
	actor := surveyor
	f := newFixture(t, fixedClock(now), &actor)

	f.service.EXPECT().GetAll(gomock.Any(), surveyor).Return(sampleBookings()[1:3], nil)

	board := decodeBoard(t, f.do(http.MethodGet, "/bookings"))

	require.Len(t, board.Upcoming, 1)
	assert.Equal(t, "18h 0m 0s", board.Upcoming[0].Countdown.Label)
	assert.Equal(t, string(schedule.UrgencyWarning), board.Upcoming[0].Countdown.Urgency)
	assert.Equal(t, "2025-03-14T09:00:00Z", board.Upcoming[0].ScheduledAt)

	require.Len(t, board.Active, 1)
	assert.Equal(t, "Survey started", board.Active[0].Countdown.Label)
}

func TestHandler_GetBookingsErrors(t *testing.T) {
	t.Run("missing actor", func(t *testing.T) {
		f := newFixture(t, fixedClock(now), nil)

		recorder := f.do(http.MethodGet, "/bookings")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("unknown kind", func(t *testing.T) {
		actor := surveyor
		f := newFixture(t, fixedClock(now), &actor)

		recorder := f.do(http.MethodGet, "/bookings?kind=ferry")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("store unavailable", func(t *testing.T) {
		actor := surveyor
		f := newFixture(t, fixedClock(now), &actor)

		f.service.EXPECT().GetAll(gomock.Any(), surveyor).Return(nil, failure.BadGateway("record store unavailable"))

		recorder := f.do(http.MethodGet, "/bookings")

		assert.Equal(t, http.StatusBadGateway, recorder.Code)
		assert.Equal(t, "record store unavailable", decodeError(t, recorder))
	})
}

func TestHandler_RespondBooking(t *testing.T) {
	accepted := []model.Booking{
		{ID: "b-1", Kind: model.KindInspection, Status: model.StatusAccepted, ScheduledDate: "2025-03-14", ScheduledTime: "9:00 AM"},
	}

	tests := []struct {
		name      string
		path      string
		mock      func(service *bookingMocks.MockBookingService)
		wantCode  int
		wantError string
	}{
		{
			name: "accept",
			path: "/bookings/b-1/accept",
			mock: func(service *bookingMocks.MockBookingService) {
				service.EXPECT().Accept(gomock.Any(), surveyor, "b-1").Return(accepted, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "decline",
			path: "/bookings/b-1/decline",
			mock: func(service *bookingMocks.MockBookingService) {
				service.EXPECT().Decline(gomock.Any(), surveyor, "b-1").Return([]model.Booking{}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "already responded",
			path: "/bookings/b-1/accept",
			mock: func(service *bookingMocks.MockBookingService) {
				service.EXPECT().Accept(gomock.Any(), surveyor, "b-1").
					Return(nil, &model.StaleTransitionError{BookingID: "b-1", Action: model.ActionAccept, Status: model.StatusDeclined})
			},
			wantCode:  http.StatusConflict,
			wantError: "this booking was already responded to",
		},
		{
			name: "store rejected with reason",
			path: "/bookings/b-1/decline",
			mock: func(service *bookingMocks.MockBookingService) {
				service.EXPECT().Decline(gomock.Any(), surveyor, "b-1").
					Return(nil, &model.TransitionFailedError{BookingID: "b-1", Action: model.ActionDecline, Reason: "vessel is in dry dock"})
			},
			wantCode:  http.StatusBadGateway,
			wantError: "vessel is in dry dock",
		},
		{
			name: "store failed without reason",
			path: "/bookings/b-1/accept",
			mock: func(service *bookingMocks.MockBookingService) {
				service.EXPECT().Accept(gomock.Any(), surveyor, "b-1").
					Return(nil, &model.TransitionFailedError{BookingID: "b-1", Action: model.ActionAccept, Err: errors.New("connection reset")})
			},
			wantCode:  http.StatusBadGateway,
			wantError: "the booking could not be updated, please try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := surveyor
			f := newFixture(t, fixedClock(now), &actor)

			tt.mock(f.service)

			recorder := f.do(http.MethodPost, tt.path)

			require.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, recorder))

				return
			}

			board := decodeBoard(t, recorder)
			assert.Empty(t, board.Active)
		})
	}
}

func TestHandler_RespondBookingInFlight(t *testing.T) {
	actor := surveyor
	f := newFixture(t, fixedClock(now), &actor)

	started := make(chan struct{})
	release := make(chan struct{})

	f.service.EXPECT().
		Accept(gomock.Any(), surveyor, "b-1").
		DoAndReturn(func(context.Context, model.Actor, string) ([]model.Booking, error) {
			close(started)
			<-release

			return []model.Booking{}, nil
		}).
		Times(1)

	first := make(chan *httptest.ResponseRecorder)

	go func() {
		first <- f.do(http.MethodPost, "/bookings/b-1/accept")
	}()

	<-started

	second := f.do(http.MethodPost, "/bookings/b-1/decline")

	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "a response to this booking is already in progress", decodeError(t, second))

	close(release)

	assert.Equal(t, http.StatusOK, (<-first).Code)
}

func TestHandler_StreamCountdown(t *testing.T) {
	var ticks atomic.Int64

	// Each reading advances one second so the stream reaches the start.
	clock := schedule.ClockFunc(func() time.Time {
		return time.Date(2025, 3, 14, 8, 59, 57, 0, time.UTC).Add(time.Duration(ticks.Add(1)-1) * time.Second)
	})

	actor := surveyor
	f := newFixture(t, clock, &actor)

	f.service.EXPECT().
		Get(gomock.Any(), surveyor, "b-1").
		Return(model.Booking{ID: "b-1", Kind: model.KindInspection, Status: model.StatusAccepted, ScheduledDate: "2025-03-14", ScheduledTime: "09:00"}, nil)

	recorder := f.do(http.MethodGet, "/bookings/b-1/countdown")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, constant.ContentTypeEventStream, recorder.Header().Get(constant.RequestHeaderContentType))

	frames := strings.Split(strings.TrimSpace(recorder.Body.String()), "\n\n")
	require.NotEmpty(t, frames)

	assert.Contains(t, frames[0], "event: countdown\n")
	assert.Contains(t, frames[0], `"label":"3s"`)
	assert.Contains(t, frames[len(frames)-1], `"label":"Survey started"`)
}

func TestHandler_StreamCountdownNotFound(t *testing.T) {
	actor := surveyor
	f := newFixture(t, fixedClock(now), &actor)

	f.service.EXPECT().Get(gomock.Any(), surveyor, "b-404").Return(model.Booking{}, failure.NotFound(model.EntityName))

	recorder := f.do(http.MethodGet, "/bookings/b-404/countdown")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandler_GetTransitions(t *testing.T) {
	actor := surveyor
	f := newFixture(t, fixedClock(now), &actor)

	f.transitions.EXPECT().
		GetAll(gomock.Any(), "b-1", transitionDto.GetTransitionsRequest{
			QueryParams: gDto.QueryParams{Page: 1, Limit: 5},
			Outcomes:    []string{"applied"},
		}).
		Return(transitionDto.GetTransitionsResponse{
			Transitions: []transitionDto.TransitionResponse{{ID: "t-1", BookingID: "b-1", Action: "accept", Outcome: "applied"}},
			TotalPage:   1,
			TotalData:   1,
		}, nil)

	recorder := f.do(http.MethodGet, "/bookings/b-1/transitions?limit=5&outcome=applied")

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data transitionDto.GetTransitionsResponse `json:"data"`
	}

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.TotalData)
	assert.Equal(t, "applied", body.Data.Transitions[0].Outcome)
}
