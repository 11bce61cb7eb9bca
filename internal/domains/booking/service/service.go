package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fleetops/config"
	"fleetops/infras/kafka"
	"fleetops/infras/otel"
	"fleetops/infras/recordstore"
	"fleetops/internal/domains/booking/model"
	"fleetops/internal/domains/booking/model/dto"
	"fleetops/internal/domains/booking/repository"
	transitionModel "fleetops/internal/domains/transition/model"
	transitionDto "fleetops/internal/domains/transition/model/dto"
	transitionService "fleetops/internal/domains/transition/service"
	"fleetops/shared"
	"fleetops/shared/cache"
	"fleetops/shared/constant"
	"fleetops/shared/failure"
	"fleetops/shared/timezone"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	cacheBookingCollection = "booking:collection"
	cacheBookingGeneration = "booking:generation"
)

type Booking interface {
	GetAll(ctx context.Context, actor model.Actor) ([]model.Booking, error)
	Get(ctx context.Context, actor model.Actor, id string) (model.Booking, error)
	Accept(ctx context.Context, actor model.Actor, id string) ([]model.Booking, error)
	Decline(ctx context.Context, actor model.Actor, id string) ([]model.Booking, error)
	HandleStoreChange(ctx context.Context, message kafkaGo.Message)
}

type serviceImpl struct {
	repo        repository.Booking
	transitions transitionService.Transition
	kafka       kafka.Client
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Booking, transitions transitionService.Transition, kafka kafka.Client, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:        repo,
		transitions: transitions,
		kafka:       kafka,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// collectionKey places the actor's collection under a generation. Cached
// collections are only read under the current generation, so a save
// computed from a fetch made before an invalidation is never served.
func collectionKey(actor model.Actor, generation int64) string {
	return shared.BuildCacheKey(cacheBookingCollection, strconv.FormatInt(generation, 10), actor.Role, actor.ID)
}

func (s *serviceImpl) generation(ctx context.Context) (int64, error) {
	var generation int64

	err := s.cache.Get(ctx, cacheBookingGeneration, &generation)
	if errors.Is(err, cache.Nil) {
		return 0, nil
	}

	return generation, err //nolint:wrapcheck
}

// invalidate moves every reader to a new generation and drops the
// collections cached so far. It returns the new generation.
func (s *serviceImpl) invalidate(ctx context.Context) (int64, error) {
	generation, err := s.cache.Increment(ctx, cacheBookingGeneration)

	shared.InvalidateCaches(ctx, s.cache, cacheBookingCollection)

	return generation, err //nolint:wrapcheck
}

// GetAll returns the actor's last known collection, fetching it from the
// record store when nothing is cached.
func (s *serviceImpl) GetAll(ctx context.Context, actor model.Actor) (res []model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	generation, genErr := s.generation(ctx)
	if genErr != nil {
		log.Warn().Err(genErr).Msg("cache generation unavailable, reading bookings from the record store")
	}

	cacheKey := collectionKey(actor, generation)

	if genErr == nil {
		if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
			log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

			return res, nil
		}
	}

	res, err = s.repo.GetAllForRole(ctx, actor)
	if err != nil {
		log.Error().Err(err).Str("actor_id", actor.ID).Msg("failed to get bookings")

		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	if genErr != nil {
		return res, nil
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, actor model.Actor, id string) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	bookings, err := s.GetAll(ctx, actor)
	if err != nil {
		return res, err
	}

	res, ok := find(bookings, id)
	if !ok {
		return res, failure.NotFound(model.ErrBookingNotFound.Error()) // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) Accept(ctx context.Context, actor model.Actor, id string) ([]model.Booking, error) {
	return s.transition(ctx, actor, id, model.ActionAccept)
}

func (s *serviceImpl) Decline(ctx context.Context, actor model.Actor, id string) ([]model.Booking, error) {
	return s.transition(ctx, actor, id, model.ActionDecline)
}

// transition issues one mutation and, once it is applied, one full resync
// whose result replaces the actor's cached collection.
func (s *serviceImpl) transition(ctx context.Context, actor model.Actor, id string, action model.Action) (res []model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, fmt.Sprintf("%s.booking.%s", constant.OtelServiceScopeName, action))
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttributes(map[string]any{
		"booking.id":     id,
		"booking.action": string(action),
		"actor.role":     actor.Role,
	})

	var from model.Status

	if known, ok := s.lastKnown(ctx, actor, id); ok {
		from = known.Status

		if !model.CanTransition(known.Status, action.Target()) {
			err = &model.StaleTransitionError{BookingID: id, Action: action, Status: known.Status}
			s.record(ctx, actor, id, action, from, err)

			return nil, err
		}
	}

	updated, err := s.mutate(ctx, id, action)
	if err != nil {
		err = transitionError(id, action, err)

		log.Warn().Err(err).Str("booking_id", id).Str("action", string(action)).Msg("booking transition rejected")
		s.record(ctx, actor, id, action, from, err)

		return nil, err
	}

	if updated.Status != action.Target() {
		err = &model.StaleTransitionError{BookingID: id, Action: action, Status: updated.Status}
		s.record(ctx, actor, id, action, from, err)

		return nil, err
	}

	s.record(ctx, actor, id, action, from, nil)
	s.publish(ctx, actor, updated, action)

	res, err = s.repo.GetAllForRole(ctx, actor)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("booking updated but resync failed")

		if _, genErr := s.invalidate(ctx); genErr != nil {
			log.Error().Err(genErr).Msg("failed to move past stale cached bookings")
		}

		return nil, &model.TransitionFailedError{
			BookingID: id,
			Action:    action,
			Reason:    "booking was updated but the refreshed list could not be loaded",
			Err:       err,
		}
	}

	s.replaceCollections(ctx, actor, res)

	return res, nil
}

func (s *serviceImpl) mutate(ctx context.Context, id string, action model.Action) (model.Booking, error) {
	if action == model.ActionDecline {
		return s.repo.Decline(ctx, id) //nolint:wrapcheck
	}

	return s.repo.Accept(ctx, id) //nolint:wrapcheck
}

func transitionError(id string, action model.Action, err error) error {
	if recordstore.StatusCode(err) == http.StatusConflict {
		return &model.StaleTransitionError{BookingID: id, Action: action}
	}

	return &model.TransitionFailedError{
		BookingID: id,
		Action:    action,
		Reason:    recordstore.Reason(err),
		Err:       err,
	}
}

func (s *serviceImpl) lastKnown(ctx context.Context, actor model.Actor, id string) (model.Booking, bool) {
	var bookings []model.Booking

	generation, err := s.generation(ctx)
	if err != nil {
		return model.Booking{}, false
	}

	if err = s.cache.Get(ctx, collectionKey(actor, generation), &bookings); err != nil {
		return model.Booking{}, false
	}

	return find(bookings, id)
}

// replaceCollections invalidates every cached collection, since the booking
// also sits in its counterpart's list, then stores the actor's fresh one
// under the new generation.
func (s *serviceImpl) replaceCollections(ctx context.Context, actor model.Actor, bookings []model.Booking) {
	generation, err := s.invalidate(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to start a new bookings cache generation, skipping save")

		return
	}

	if err = s.cache.Save(ctx, collectionKey(actor, generation), bookings, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save refreshed bookings to cache")
	}
}

func (s *serviceImpl) record(ctx context.Context, actor model.Actor, id string, action model.Action, from model.Status, cause error) {
	req := transitionDto.RecordTransitionRequest{
		BookingID:  id,
		Action:     string(action),
		Outcome:    transitionModel.OutcomeApplied,
		FromStatus: string(from),
		ToStatus:   string(action.Target()),
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
	}

	var stale *model.StaleTransitionError
	var failed *model.TransitionFailedError

	switch {
	case errors.As(cause, &stale):
		req.Outcome = transitionModel.OutcomeStale
		req.ToStatus = string(stale.Status)
		req.Reason = stale.Error()
	case errors.As(cause, &failed):
		req.Outcome = transitionModel.OutcomeFailed
		req.ToStatus = constant.Empty
		req.Reason = failed.Error()
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.transitions.Record(c, req); err != nil {
			log.Error().Err(err).Str("booking_id", id).Msg("failed to journal booking transition")
		}
	}()
}

func (s *serviceImpl) publish(ctx context.Context, actor model.Actor, booking model.Booking, action model.Action) {
	event := dto.TransitionEvent{
		BookingID:  booking.ID,
		Kind:       string(booking.Kind),
		Action:     string(action),
		Status:     string(booking.Status),
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OccurredAt: timezone.Now().Format(constant.DateFormat),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.Transitions, kafka.Message{Key: booking.ID, Value: event})
		if err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to publish booking transition")
		}
	}()
}

// HandleStoreChange drops cached collections when the record store reports
// a booking change made elsewhere.
func (s *serviceImpl) HandleStoreChange(ctx context.Context, message kafkaGo.Message) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".booking.HandleStoreChange")
	defer scope.End()

	event, err := kafka.Decode[dto.StoreChangeEvent](message)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode record store change")

		return
	}

	scope.SetAttribute("booking.id", event.BookingID)

	log.Info().Str("booking_id", event.BookingID).Str("status", event.Status).Msg("record store booking changed, invalidating cached bookings")

	if _, err = s.invalidate(ctx); err != nil {
		scope.TraceError(err)
	}
}

func find(bookings []model.Booking, id string) (model.Booking, bool) {
	for _, booking := range bookings {
		if booking.ID == id {
			return booking, true
		}
	}

	return model.Booking{}, false
}
