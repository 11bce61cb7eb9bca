package booking

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"fleetops/config"
	"fleetops/infras/otel"
	"fleetops/internal/domains/booking/model"
	"fleetops/internal/domains/booking/model/dto"
	"fleetops/internal/domains/booking/schedule"
	"fleetops/internal/domains/booking/service"
	transitionDto "fleetops/internal/domains/transition/model/dto"
	transitionService "fleetops/internal/domains/transition/service"
	"fleetops/shared/constant"
	"fleetops/shared/failure"
	"fleetops/shared/timezone"
	"fleetops/shared/validator"
	"fleetops/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	eventCountdown = "countdown"

	messageStaleTransition  = "this booking was already responded to"
	messageTransitionFailed = "the booking could not be updated, please try again"
	messageInFlight         = "a response to this booking is already in progress"
)

// inflight tracks bookings with an outstanding transition.
type inflight struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func (f *inflight) acquire(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.ids[id]; busy {
		return false
	}

	f.ids[id] = struct{}{}

	return true
}

func (f *inflight) release(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.ids, id)
}

type Handler struct {
	service     service.Booking
	transitions transitionService.Transition
	otel        otel.Otel
	resolver    schedule.Resolver
	clock       schedule.Clock
	interval    time.Duration
	inflight    *inflight
}

func New(service service.Booking, transitions transitionService.Transition, cfg *config.Config, otel otel.Otel) Handler {
	interval := schedule.DefaultTickInterval
	if cfg.App.CountdownIntervalMs > 0 {
		interval = time.Duration(cfg.App.CountdownIntervalMs) * time.Millisecond
	}

	return Handler{
		service:     service,
		transitions: transitions,
		otel:        otel,
		resolver:    schedule.NewResolver(timezone.GetLocation()),
		clock:       schedule.SystemClock,
		interval:    interval,
		inflight:    &inflight{ids: map[string]struct{}{}},
	}
}

// WithClock returns a copy of the handler reading time from clock and
// resolving schedules in loc.
func (handler Handler) WithClock(clock schedule.Clock, loc *time.Location) Handler {
	handler.clock = clock
	handler.resolver = schedule.NewResolver(loc)

	return handler
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Post("/{id}/accept", handler.AcceptBooking)
		routerGroup.Post("/{id}/decline", handler.DeclineBooking)
		routerGroup.Get("/{id}/countdown", handler.StreamCountdown)
		routerGroup.Get("/{id}/transitions", handler.GetTransitions)
	})
}

func actorFromRequest(request *http.Request) (model.Actor, bool) {
	ctx := request.Context()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if userID == constant.Empty || role == constant.Empty {
		return model.Actor{}, false
	}

	return model.Actor{ID: userID, Role: role}, true
}

func listRequest(request *http.Request) (dto.ListBookingsRequest, error) {
	req := dto.ListBookingsRequest{}
	req.FromRequest(request)

	if err := validator.ValidateStruct(&req); err != nil {
		return req, err
	}

	return req, nil
}

func transitionFailure(err error) error {
	var stale *model.StaleTransitionError
	if errors.As(err, &stale) {
		return failure.Conflict(messageStaleTransition)
	}

	var failed *model.TransitionFailedError
	if errors.As(err, &failed) {
		if failed.Reason != constant.Empty {
			return failure.BadGateway(failed.Reason)
		}

		return failure.BadGateway(messageTransitionFailed)
	}

	return err
}

// GetBookings renders the caller's bookings as upcoming and active lists.
// @Summary Get classified bookings
// @Description Classify the caller's bookings into upcoming and active lists, each row carrying its countdown.
// @Tags Booking
// @Produce json
// @Param kind query string false "Filter by kind (inspection, cargo)"
// @Param include_pending query bool false "Show pending bookings as upcoming"
// @Success 200 {object} response.Data[dto.BookingBoardResponse] "Classified bookings"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	actor, ok := actorFromRequest(request)
	if !ok {
		response.WithError(writer, failure.Unauthorized("unauthorized"))

		return
	}

	req, err := listRequest(request)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, actor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	var board dto.BookingBoardResponse
	board.FromModels(bookings, handler.resolver, req, actor.Role, handler.clock.Now())

	scope.AddEvent("Bookings classified successfully")

	response.WithJSON(writer, http.StatusOK, board)
}

// AcceptBooking accepts a pending booking.
// @Summary Accept a booking
// @Description Accept a pending booking and return the refreshed classified lists.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Param kind query string false "Filter by kind (inspection, cargo)"
// @Param include_pending query bool false "Show pending bookings as upcoming"
// @Success 200 {object} response.Data[dto.BookingBoardResponse] "Refreshed bookings"
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/bookings/{id}/accept [post]
// @Security BearerAuth
func (handler *Handler) AcceptBooking(writer http.ResponseWriter, request *http.Request) {
	handler.respond(writer, request, model.ActionAccept)
}

// DeclineBooking declines a pending booking.
// @Summary Decline a booking
// @Description Decline a pending booking and return the refreshed classified lists.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Param kind query string false "Filter by kind (inspection, cargo)"
// @Param include_pending query bool false "Show pending bookings as upcoming"
// @Success 200 {object} response.Data[dto.BookingBoardResponse] "Refreshed bookings"
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/bookings/{id}/decline [post]
// @Security BearerAuth
func (handler *Handler) DeclineBooking(writer http.ResponseWriter, request *http.Request) {
	handler.respond(writer, request, model.ActionDecline)
}

func (handler *Handler) respond(writer http.ResponseWriter, request *http.Request, action model.Action) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RespondBooking")
	defer scope.End()

	actor, ok := actorFromRequest(request)
	if !ok {
		response.WithError(writer, failure.Unauthorized("unauthorized"))

		return
	}

	req, err := listRequest(request)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	if !handler.inflight.acquire(id) {
		response.WithError(writer, failure.Conflict(messageInFlight))

		return
	}
	defer handler.inflight.release(id)

	var bookings []model.Booking

	if action == model.ActionDecline {
		bookings, err = handler.service.Decline(ctx, actor, id)
	} else {
		bookings, err = handler.service.Accept(ctx, actor, id)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Str("action", string(action)).Msg("failed to respond to booking")

		response.WithError(writer, transitionFailure(err))

		return
	}

	var board dto.BookingBoardResponse
	board.FromModels(bookings, handler.resolver, req, actor.Role, handler.clock.Now())

	scope.AddEvent("Booking " + string(action.Target()) + " by user " + actor.ID)

	response.WithJSON(writer, http.StatusOK, board)
}

// StreamCountdown streams the live countdown of one booking.
// @Summary Stream a booking countdown
// @Description Server-sent events, one "countdown" event per tick until the event starts or the client disconnects.
// @Tags Booking
// @Produce text/event-stream
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.CountdownEvent "Countdown frames"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id}/countdown [get]
// @Security BearerAuth
func (handler *Handler) StreamCountdown(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StreamCountdown")
	defer scope.End()

	actor, ok := actorFromRequest(request)
	if !ok {
		response.WithError(writer, failure.Unauthorized("unauthorized"))

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	stream, err := response.WithEventStream(writer)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	frames := make(chan schedule.Countdown, 1)

	ticker := handler.resolver.StartTicker(handler.clock, dto.CountdownInputFor(booking), handler.interval, func(countdown schedule.Countdown) {
		select {
		case frames <- countdown:
		default:
		}
	})
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			scope.AddEvent("Countdown stream closed by client")

			return
		case countdown := <-frames:
			event := dto.CountdownEvent{
				BookingID: booking.ID,
				Label:     countdown.Label,
				Urgency:   string(countdown.Urgency),
				At:        handler.clock.Now().In(handler.resolver.Location()).Format(constant.DateFormat),
			}

			if err := stream.Send(eventCountdown, event); err != nil {
				log.Warn().Err(err).Str("booking_id", booking.ID).Msg("countdown stream write failed")

				return
			}

			if countdown.Remaining <= 0 {
				scope.AddEvent("Countdown reached a final state")

				return
			}
		}
	}
}

// GetTransitions lists the transition journal of one booking.
// @Summary Get booking transitions
// @Description Retrieve the accept/decline attempts recorded for a booking.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Rows per page" default(10)
// @Param sort_by query string false "created_at or outcome" default(created_at)
// @Param sort_dir query string false "ASC or DESC" default(DESC)
// @Param outcome query string false "Comma separated outcomes" example(stale,failed)
// @Param since query string false "Only attempts at or after this RFC 3339 time"
// @Success 200 {object} response.Data[transitionDto.GetTransitionsResponse] "Transition journal"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/transitions [get]
// @Security BearerAuth
func (handler *Handler) GetTransitions(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTransitions")
	defer scope.End()

	req := transitionDto.GetTransitionsRequest{}
	req.FromRequest(request)

	id := chi.URLParam(request, constant.RequestParamID)

	transitions, err := handler.transitions.GetAll(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking transitions")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, transitions)
}
