package handler

import (
	"net/http"
	"sync"

	"fleetops/config"
	"fleetops/di"
	"fleetops/shared/logger"
	"fleetops/shared/timezone"

	"github.com/rs/zerolog/log"
)

var (
	once    sync.Once
	handler http.Handler
)

// Handler serves the console API from a serverless function. The service is
// assembled on the first invocation and reused while the instance is warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.Configure(cfg)

		if err := timezone.Init(cfg); err != nil {
			log.Error().Err(err).Msg("Failed to initialize timezone, using UTC")
		}

		handler = di.InitializeService().HTTP.Handler()
	})

	r.RequestURI = r.URL.String()

	handler.ServeHTTP(w, r)
}
