package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/url"

	"fleetops/infras/otel"
	"fleetops/infras/recordstore"
	"fleetops/internal/domains/booking/model"
	"fleetops/shared/constant"
	"fleetops/shared/validator"

	"github.com/rs/zerolog/log"
)

type Booking interface {
	GetAllForRole(ctx context.Context, actor model.Actor) ([]model.Booking, error)
	Accept(ctx context.Context, id string) (model.Booking, error)
	Decline(ctx context.Context, id string) (model.Booking, error)
}

type repositoryImpl struct {
	store recordstore.Client
	otel  otel.Otel
}

func New(store recordstore.Client, otel otel.Otel) Booking {
	return &repositoryImpl{
		store: store,
		otel:  otel,
	}
}

// GetAllForRole fetches every booking visible to the actor. Records the store
// returns in an unusable shape are dropped with a warning instead of failing
// the whole collection.
func (r *repositoryImpl) GetAllForRole(ctx context.Context, actor model.Actor) (res []model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetAllForRole")
	defer scope.End()
	defer scope.TraceIfError(&err)

	path := fmt.Sprintf("/roles/%s/actors/%s/bookings", url.PathEscape(actor.Role), url.PathEscape(actor.ID))

	var records []model.Booking
	if err = r.store.Get(ctx, path, &records); err != nil {
		return nil, fmt.Errorf("failed to get bookings for %s %s: %w", actor.Role, actor.ID, err)
	}

	res = make([]model.Booking, 0, len(records))

	for i := range records {
		if vErr := validator.ValidateStruct(&records[i]); vErr != nil {
			log.Warn().Err(vErr).Str("booking_id", records[i].ID).Msg("skipping malformed booking from record store")

			continue
		}

		res = append(res, records[i])
	}

	scope.SetAttribute("booking.count", len(res))

	return res, nil
}

func (r *repositoryImpl) Accept(ctx context.Context, id string) (model.Booking, error) {
	return r.respond(ctx, id, model.ActionAccept)
}

func (r *repositoryImpl) Decline(ctx context.Context, id string) (model.Booking, error) {
	return r.respond(ctx, id, model.ActionDecline)
}

func (r *repositoryImpl) respond(ctx context.Context, id string, action model.Action) (res model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.booking.%s", constant.OtelRepositoryScopeName, action))
	defer scope.End()
	defer scope.TraceIfError(&err)

	path := fmt.Sprintf("/bookings/%s/%s", url.PathEscape(id), action)

	if err = r.store.Put(ctx, path, nil, &res); err != nil {
		return res, fmt.Errorf("failed to %s booking %s: %w", action, id, err)
	}

	if err = validator.ValidateStruct(&res); err != nil {
		return res, fmt.Errorf("record store returned an invalid booking for %s: %w", id, err)
	}

	return res, nil
}
