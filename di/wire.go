//go:build wireinject
// +build wireinject

package di

import (
	"fleetops/config"
	"fleetops/infras/jwt"
	"fleetops/infras/kafka"
	"fleetops/infras/otel"
	"fleetops/infras/postgres"
	"fleetops/infras/recordstore"
	"fleetops/infras/redis"
	"fleetops/permissions"
	"fleetops/shared/cache"
	"fleetops/transport/http"
	"fleetops/transport/http/middleware"
	"fleetops/transport/http/router"

	bookingRepository "fleetops/internal/domains/booking/repository"
	bookingService "fleetops/internal/domains/booking/service"
	bookingHandler "fleetops/internal/handlers/booking"

	transitionRepository "fleetops/internal/domains/transition/repository"
	transitionService "fleetops/internal/domains/transition/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	recordstore.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var transitionDomain = wire.NewSet(
	transitionRepository.New,
	transitionService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	transitionDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	router.New,
)

func InitializeService() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
