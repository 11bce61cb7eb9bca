package main

import (
	"context"
	"os/signal"
	"syscall"

	"fleetops/config"
	"fleetops/di"
	"fleetops/helper"
	"fleetops/shared/logger"
	"fleetops/shared/timezone"

	"github.com/rs/zerolog/log"
)

// @title Fleetops Booking API
// @version 1.0
// @description Booking lifecycle and countdown service for inspection and cargo bookings.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.Configure(cfg)

	if err := timezone.Init(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize timezone")
	}

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate transition journal")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	app := di.InitializeService()

	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to release resources")
		}
	}()

	if cfg.Kafka.ConsumeStoreChanges {
		go app.Kafka.Consume(ctx, "", cfg.Kafka.Topics.StoreChanges, app.Booking.HandleStoreChange)

		log.Info().Str("topic", cfg.Kafka.Topics.StoreChanges).Msg("Listening for record store changes.")
	}

	app.HTTP.Serve(ctx)
}
