package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config is read from the environment, optionally seeded from a .env file.
// Nested structs map to prefixed variables, for example DB_POSTGRES_READ_HOST.
type Config struct {
	Server      Server      `envconfig:"SERVER"`
	App         App         `envconfig:"APP"`
	RecordStore RecordStore `envconfig:"RECORD_STORE"`
	Cache       Cache       `envconfig:"CACHE"`
	JWT         JWT         `envconfig:"JWT"`
	DB          DB          `envconfig:"DB"`
	Kafka       Kafka       `envconfig:"KAFKA"`
	External    External    `envconfig:"EXTERNAL"`
}

type Server struct {
	Env      string `envconfig:"ENV"       default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     string `envconfig:"PORT"      default:"8080"`
	Host     string `envconfig:"HOST"`
	Shutdown struct {
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name        string `envconfig:"APP_NAME" default:"fleetops"`
	Timezone    string `envconfig:"TIMEZONE" default:"UTC"`
	CORS        CORS   `envconfig:"CORS"`
	RateLimiter struct {
		Enable        bool `envconfig:"ENABLE"`
		MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"120"`
		WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
	} `envconfig:"RATE_LIMITER"`
	APIKey string `envconfig:"API_KEY"`
	// CountdownIntervalMs is the tick of the countdown stream.
	CountdownIntervalMs int `envconfig:"COUNTDOWN_INTERVAL_MS" default:"1000"`
}

type CORS struct {
	Enable           bool     `envconfig:"ENABLE"`
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
	AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
	AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
	MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
}

// RecordStore is the upstream system of record for bookings.
type RecordStore struct {
	BaseURL        string `envconfig:"BASE_URL"`
	APIKey         string `envconfig:"API_KEY"`
	TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS" default:"10"`
}

type Cache struct {
	Redis struct {
		Primary struct {
			Host     string `envconfig:"HOST"`
			Port     string `envconfig:"PORT" default:"6379"`
			Password string `envconfig:"PASSWORD"`
			DB       int    `envconfig:"DB"`
		} `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
	TTL int `envconfig:"TTL" default:"30"`
}

type JWT struct {
	AccessSecret    string `envconfig:"ACCESS_SECRET"`
	AccessExpireMin int    `envconfig:"ACCESS_EXPIRE_MIN" default:"60"`
}

type DB struct {
	Postgres struct {
		MaxRetry       int          `envconfig:"MAX_RETRY"       default:"3"`
		RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME" default:"2"`
		MigrationTable string       `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
		AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
		Prefix         string       `envconfig:"PREFIX"`
		Read           PostgresNode `envconfig:"READ"`
		Write          PostgresNode `envconfig:"WRITE"`
	} `envconfig:"POSTGRES"`
}

// PostgresNode is one side of the read/write split.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"      default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"  default:"UTC"`
	SSLMode  string `envconfig:"SSL_MODE"  default:"disable"`
}

type Kafka struct {
	Brokers       []string `envconfig:"BROKERS"`
	ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"fleetops"`
	SASL          struct {
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"SASL"`
	Topics struct {
		Transitions  string `envconfig:"TRANSITIONS"   default:"booking.transitions"`
		StoreChanges string `envconfig:"STORE_CHANGES" default:"recordstore.booking.changed"`
	} `envconfig:"TOPICS"`
	ConsumeStoreChanges bool `envconfig:"CONSUME_STORE_CHANGES"`
}

type External struct {
	Otel struct {
		Endpoint string `envconfig:"ENDPOINT"`
	} `envconfig:"OTEL"`
}

var (
	conf    *Config
	loadErr error
	once    sync.Once
)

// Load reads the files (".env" when none are given) into the environment,
// without overriding variables already set, and then processes it.
// A missing file is not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		err := godotenv.Load(file)

		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Debug().Str("file", file).Msg("No env file, using the environment only")
		case err != nil:
			return nil, fmt.Errorf("loading %s: %w", file, err)
		default:
			log.Info().Str("file", file).Msg("Loaded variables from env file")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	return &cfg, nil
}

// Init loads the process-wide configuration once.
func Init() error {
	once.Do(func() {
		conf, loadErr = Load()
		if loadErr == nil {
			log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized")
		}
	})

	return loadErr
}

// Get returns the process-wide configuration and exits when it cannot load.
func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return conf
}
