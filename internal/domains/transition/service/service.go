package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Transition=MockTransitionService

import (
	"context"
	"fmt"
	"slices"

	"fleetops/config"
	"fleetops/infras/otel"
	"fleetops/internal/domains/transition/model"
	"fleetops/internal/domains/transition/model/dto"
	"fleetops/internal/domains/transition/repository"
	"fleetops/shared"
	"fleetops/shared/cache"
	"fleetops/shared/constant"
	"fleetops/shared/failure"
	"fleetops/shared/validator"

	"github.com/rs/zerolog/log"
)

const cacheGetAllTransition = "transition:gets"

var sortableFields = []string{constant.FieldCreatedAt, model.FieldOutcome}

type Transition interface {
	Record(ctx context.Context, req dto.RecordTransitionRequest) error
	GetAll(ctx context.Context, bookingID string, req dto.GetTransitionsRequest) (dto.GetTransitionsResponse, error)
}

type serviceImpl struct {
	repo  repository.Transition
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Transition, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Transition {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Record(ctx context.Context, req dto.RecordTransitionRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".transition.Record")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&req); err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, req.ToModel()); err != nil {
		log.Error().Err(err).Str("booking_id", req.BookingID).Msg("failed to record transition")

		return fmt.Errorf("failed to record transition: %w", err)
	}

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, shared.BuildCacheKey(cacheGetAllTransition, req.BookingID))

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, bookingID string, req dto.GetTransitionsRequest) (res dto.GetTransitionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".transition.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.SortBy == constant.Empty {
		req.SortBy = constant.DefaultValueSortBy
	}

	if req.SortDir == constant.Empty {
		req.SortDir = constant.DefaultValueSortDir
	}

	if !slices.Contains(sortableFields, req.SortBy) {
		return res, failure.BadRequestFromString(fmt.Sprintf("cannot sort transitions by %s", req.SortBy)) // nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTransition, req.QueryParams, req.CacheParts(bookingID)...)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for transitions")

		return res, nil
	}

	filter := req.Filter(bookingID)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to count transitions")

		return res, fmt.Errorf("failed to count transitions: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req.QueryParams, filter)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to get transitions")

		return res, fmt.Errorf("failed to get transitions: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save transitions to cache")
		}
	}()

	return res, nil
}
