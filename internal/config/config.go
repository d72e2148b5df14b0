package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/internal/notifier"
	"github.com/gaze-network/ticket-ledger/internal/postgres"
	"github.com/gaze-network/ticket-ledger/internal/storage/redis"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
	"github.com/gaze-network/ticket-ledger/pkg/metrics"
	"github.com/gaze-network/ticket-ledger/pkg/middleware/requestcontext"
	"github.com/gaze-network/ticket-ledger/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

var (
	isInit bool
	mu     sync.Mutex
	config = defaultConfig()
)

func defaultConfig() *Config {
	return &Config{
		Network: common.NetworkDevnet,
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServerConfig{
			Port: 8080,
		},
		Store: StoreConfig{
			Driver: StoreDriverMemory,
		},
		Notifier: notifier.Config{
			Log: true,
		},
		Metrics: metrics.Config{
			Enabled: true,
		},
		Registry: RegistryConfig{
			Name: eventregistry.DefaultName,
		},
		Payment: PaymentConfig{
			Name:          ticketpayment.DefaultName,
			TokenDecimals: 7,
		},
	}
}

type Config struct {
	Network    common.Network   `mapstructure:"network"`
	Logger     logger.Config    `mapstructure:"logger"`
	HTTPServer HTTPServerConfig `mapstructure:"http_server"`
	Store      StoreConfig      `mapstructure:"store"`
	Notifier   notifier.Config  `mapstructure:"notifier"`
	Metrics    metrics.Config   `mapstructure:"metrics"`
	Registry   RegistryConfig   `mapstructure:"registry"`
	Payment    PaymentConfig    `mapstructure:"payment"`
	Genesis    GenesisConfig    `mapstructure:"genesis"`
}

type HTTPServerConfig struct {
	Port      int                                `mapstructure:"port"`
	Logger    requestlogger.Config               `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
}

type StoreConfig struct {
	Driver   string          `mapstructure:"driver"` // memory | postgres | redis
	Postgres postgres.Config `mapstructure:"postgres"`
	Redis    redis.Config    `mapstructure:"redis"`
}

type RegistryConfig struct {
	Name string `mapstructure:"name"`
}

type PaymentConfig struct {
	Name          string `mapstructure:"name"`
	TokenDecimals uint16 `mapstructure:"token_decimals"` // only used to render amounts
}

// GenesisConfig seeds token balances once on an empty store.
type GenesisConfig struct {
	Token    string           `mapstructure:"token"`
	Balances []GenesisBalance `mapstructure:"balances"`
}

type GenesisBalance struct {
	Address string `mapstructure:"address"`
	Amount  string `mapstructure:"amount"` // base units
}

// Parse parse the configuration from environment variables and the config file.
func Parse(configFile ...string) Config {
	mu.Lock()
	defer mu.Unlock()
	return parse(configFile...)
}

// Load returns the loaded configuration
func Load() Config {
	mu.Lock()
	defer mu.Unlock()
	if isInit {
		return *config
	}
	return parse()
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
// Example (where serverCmd is a Cobra instance):
//
//	serverCmd.Flags().Int("port", 1138, "Port to run Application server on")
//	config.BindPFlag("port", serverCmd.Flags().Lookup("port"))
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slog.String("package", "config"), slogx.Error(err))
	}
}

// envKeys are readable from environment variables without a config file, e.g. STORE_DRIVER.
var envKeys = []string{
	"network",
	"logger.output", "logger.debug",
	"http_server.port",
	"store.driver",
	"store.postgres.url", "store.postgres.host", "store.postgres.port", "store.postgres.user",
	"store.postgres.password", "store.postgres.db_name", "store.postgres.ssl_mode",
	"store.redis.addr", "store.redis.password", "store.redis.db", "store.redis.key_prefix",
	"notifier.log", "notifier.webhook.url", "notifier.webhook.timeout", "notifier.amqp.url", "notifier.amqp.exchange",
	"metrics.enabled", "metrics.namespace",
	"payment.token_decimals",
	"genesis.token",
}

func parse(configFile ...string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := viper.BindEnv(key); err != nil {
			logger.PanicContext(ctx, "Something went wrong, failed to bind env", slog.String("key", key), slogx.Error(err))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.WarnContext(ctx, "Config file not found, use default config value", slogx.Error(err))
		} else {
			logger.PanicContext(ctx, "Invalid config file", slogx.Error(err))
		}
	}

	conf := defaultConfig()
	if err := viper.Unmarshal(conf); err != nil {
		logger.PanicContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
	}

	config = conf
	isInit = true
	return *config
}
