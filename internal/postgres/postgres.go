package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	pgxslog "github.com/mcosta74/pgx-slog"
)

const (
	DefaultMaxConns        = 16
	DefaultMinConns        = 0
	DefaultApplicationName = "ticket-ledger"
	DefaultConnectTimeout  = 10 * time.Second
)

type Config struct {
	Host     string `mapstructure:"host"`     // Default is 127.0.0.1
	Port     string `mapstructure:"port"`     // Default is 5432
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`  // Default is postgres
	SSLMode  string `mapstructure:"ssl_mode"` // Default is prefer
	URL      string `mapstructure:"url"`      // Takes precedence over the fields above

	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ApplicationName string        `mapstructure:"application_name"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`

	// Debug traces every query.
	Debug bool `mapstructure:"debug"`
}

// NewPool connects a pool and checks it with a ping.
func NewPool(ctx context.Context, conf Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(conf.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse postgres config")
	}
	poolConfig.MaxConns = utils.Default(conf.MaxConns, DefaultMaxConns)
	poolConfig.MinConns = utils.Default(conf.MinConns, DefaultMinConns)
	poolConfig.ConnConfig.ConnectTimeout = utils.Default(conf.ConnectTimeout, DefaultConnectTimeout)
	poolConfig.ConnConfig.RuntimeParams["application_name"] = utils.Default(conf.ApplicationName, DefaultApplicationName)
	poolConfig.ConnConfig.Tracer = conf.QueryTracer()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}
	return pool, nil
}

// String returns URL if set, otherwise a key/value DSN built from the fields.
func (conf Config) String() string {
	if conf.URL != "" {
		return conf.URL
	}
	params := []string{
		"host=" + utils.Default(conf.Host, "127.0.0.1"),
		"dbname=" + utils.Default(conf.DBName, "postgres"),
		"port=" + utils.Default(conf.Port, "5432"),
		"sslmode=" + utils.Default(conf.SSLMode, "prefer"),
	}
	if conf.User != "" {
		params = append(params, "user="+conf.User)
	}
	if conf.Password != "" {
		params = append(params, "password="+conf.Password)
	}
	return strings.Join(params, " ")
}

// GoString keeps the password out of %#v output.
func (conf Config) GoString() string {
	if conf.Password != "" {
		conf.Password = "***"
	}
	return fmt.Sprintf("postgres.Config{%s}", conf.String())
}

func (conf Config) QueryTracer() pgx.QueryTracer {
	level := tracelog.LogLevelError
	if conf.Debug {
		level = tracelog.LogLevelTrace
	}
	return &tracelog.TraceLog{
		Logger:   pgxslog.NewLogger(logger.With("package", "postgres")),
		LogLevel: level,
	}
}
