package di

import (
	"context"
	"errors"
	"time"

	"fleetops/infras/kafka"
	"fleetops/infras/otel"
	"fleetops/infras/postgres"
	bookingService "fleetops/internal/domains/booking/service"
	"fleetops/transport/http"

	goRedis "github.com/redis/go-redis/v9"
)

const flushTimeout = 5 * time.Second

// App is the assembled service: the HTTP server plus the pieces main needs
// to start the store change consumer and release connections on exit.
type App struct {
	HTTP     *http.HTTP
	Booking  bookingService.Booking
	Kafka    kafka.Client
	Postgres *postgres.Connection
	Redis    *goRedis.Client
	Otel     otel.Otel
}

// Close releases the Kafka writers, the journal pools and the cache client,
// then flushes pending spans.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	return errors.Join(a.Kafka.Close(), a.Postgres.Close(), a.Redis.Close(), a.Otel.Shutdown(ctx))
}
