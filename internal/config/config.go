package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	NATS      NATSConfig
	Telemetry TelemetryConfig
	Log       LogConfig
}

type AppConfig struct {
	AppName     string `env:"APP_NAME"`
	Environment string `env:"APP_ENV, default=development"`
	HTTPPort    string `env:"HTTP_PORT, default=8080"`
}

type DatabaseConfig struct {
	DBHost     string `env:"DB_HOST, default=localhost"`
	DBPort     string `env:"DB_PORT, default=5432"`
	DBName     string `env:"DB_NAME, default=smartats"`
	DBUser     string `env:"DB_USER, default=postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBSSLMode  string `env:"DB_SSL_MODE, default=disable"`

	ConnectTimeout        time.Duration `env:"DB_CONNECT_TIMEOUT, default=5s"`
	PoolMaxConns          int32         `env:"DB_POOL_MAX_CONNS, default=10"`
	PoolMinConns          int32         `env:"DB_POOL_MIN_CONNS, default=0"`
	PoolMaxConnLifetime   time.Duration `env:"DB_POOL_MAX_CONN_LIFETIME, default=1h"`
	PoolMaxConnIdleTime   time.Duration `env:"DB_POOL_MAX_CONN_IDLE_TIME, default=30m"`
	PoolHealthCheckPeriod time.Duration `env:"DB_POOL_HEALTH_CHECK_PERIOD, default=1m"`

	RunMigrations bool `env:"DB_RUN_MIGRATIONS, default=false"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST, default=localhost"`
	Port     string `env:"REDIS_PORT, default=6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`

	JobDetailTTL time.Duration `env:"REDIS_JOB_DETAIL_TTL, default=30m"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

type JWTConfig struct {
	AccessSecret     string        `env:"JWT_ACCESS_SECRET"`
	RefreshSecret    string        `env:"JWT_REFRESH_SECRET"`
	AccessExpiresIn  time.Duration `env:"JWT_ACCESS_EXPIRES_IN, default=15m"`
	RefreshExpiresIn time.Duration `env:"JWT_REFRESH_EXPIRES_IN, default=168h"`
}

type NATSConfig struct {
	URL            string        `env:"NATS_URL"`
	ConnectTimeout time.Duration `env:"NATS_CONNECT_TIMEOUT, default=10s"`
}

func (c NATSConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

type TelemetryConfig struct {
	CollectorURL string `env:"OTEL_COLLECTOR_URL"`
	ServiceName  string `env:"OTEL_SERVICE_NAME, default=smartats"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL, default=info"`
	Format string `env:"LOG_FORMAT, default=json"`
}

var ErrMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadWithLookuper(envconfig.OsLookuper())
}

// LoadWithLookuper is Load with a custom source of environment values.
func LoadWithLookuper(l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	var missing []string
	req := func(key, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}
	req("APP_NAME", cfg.App.AppName)
	req("JWT_ACCESS_SECRET", cfg.JWT.AccessSecret)
	req("JWT_REFRESH_SECRET", cfg.JWT.RefreshSecret)

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
