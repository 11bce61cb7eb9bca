package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"fleetops/config"
	"fleetops/shared/constant"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName         = "postgres"
	maxIdleConnections = 10
	maxOpenConnections = 10
	connMaxLifetime    = 30 * time.Minute
)

// Connection holds the read and write pools of the transition journal.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres
	retry := retryPolicy{attempts: max(pg.MaxRetry, 1), wait: time.Duration(pg.RetryWaitTime) * time.Second}

	read, err := retry.connect("read", DataSourceName(cfg, pg.Read, nil))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to read database")
	}

	write, err := retry.connect("write", DataSourceName(cfg, pg.Write, nil))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to write database")
	}

	return &Connection{Read: read, Write: write}
}

func (c *Connection) Close() error {
	return errors.Join(c.Read.Close(), c.Write.Close())
}

// DataSourceName renders node as a postgres URL. The database name gets the
// configured prefix; extra is merged into the query.
func DataSourceName(cfg *config.Config, node config.PostgresNode, extra url.Values) string {
	query := url.Values{}
	query.Set("sslmode", node.SSLMode)

	if node.Timezone != constant.Empty {
		query.Set("timezone", node.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(node.Username, node.Password),
		Host:     net.JoinHostPort(node.Host, node.Port),
		Path:     cfg.DB.Postgres.Prefix + node.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

type retryPolicy struct {
	attempts int
	wait     time.Duration
}

func (p retryPolicy) connect(name, dsn string) (*sqlx.DB, error) {
	var err error

	for attempt := 1; attempt <= p.attempts; attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			log.Info().Str("name", name).Int("attempt", attempt).Msg("Connected to database")

			return db, nil
		}

		log.Error().Err(err).Str("name", name).Int("attempt", attempt).Msg("Failed connecting to database")

		if attempt < p.attempts {
			time.Sleep(p.wait)
		}
	}

	return nil, fmt.Errorf("connect to %s database after %d attempts: %w", name, p.attempts, err)
}
