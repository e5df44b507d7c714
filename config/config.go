package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sifan077/slugurl/internal/app/slug"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App AppConfig `mapstructure:"app"`

	// HTTP listener
	Server ServerConfig `mapstructure:"server"`

	// Slug generation
	Slug SlugConfig `mapstructure:"slug"`

	// Which RecordStore backs the service
	Store StoreConfig `mapstructure:"store"`

	// PostgreSQL
	Postgres PostgresConfig `mapstructure:"postgres"`

	// SQLite (local runs)
	SQLite SQLiteConfig `mapstructure:"sqlite"`

	// Redis
	Redis RedisConfig `mapstructure:"redis"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// NATS
	NATS NATSConfig `mapstructure:"nats"`

	// Prometheus
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// IsDevelopment reports whether the service runs outside production.
func (c AppConfig) IsDevelopment() bool {
	return c.Env != "production"
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

type SlugConfig struct {
	Length int `mapstructure:"length"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	// URL takes precedence over the discrete fields when set.
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	Port     int    `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

type SQLiteConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	MaxRequests   int    `mapstructure:"max_requests"`
	WindowSeconds int    `mapstructure:"window_seconds"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

// Window returns the fixed rate limit window.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

type NATSConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
}

type PrometheusConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

func Load() (*Config, error) {
	// Load local .env for development (ignored when missing).
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Search for config/config.yaml (plus root for overrides).
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Allow environment variables to override YAML entries.
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Preserve legacy env variable names.
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Slug.Length < 1 || c.Slug.Length > slug.MaxLength {
		errs = append(errs, fmt.Errorf("slug.length must be between 1 and %d, got %d", slug.MaxLength, c.Slug.Length))
	}
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Postgres.MaxConns < 0 {
			errs = append(errs, fmt.Errorf("postgres.max_conns must not be negative, got %d", c.Postgres.MaxConns))
		}
		if c.Postgres.MaxConnLifetime < 0 || c.Postgres.MaxConnIdleTime < 0 || c.Postgres.HealthCheckPeriod < 0 {
			errs = append(errs, errors.New("postgres pool durations must not be negative"))
		}
	case DriverSQLite:
		if c.SQLite.DSN == "" {
			errs = append(errs, errors.New("sqlite.dsn is required when store.driver is sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Store.Driver))
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.MaxRequests < 1 {
			errs = append(errs, fmt.Errorf("rate_limit.max_requests must be at least 1, got %d", c.RateLimit.MaxRequests))
		}
		if c.RateLimit.WindowSeconds < 1 {
			errs = append(errs, fmt.Errorf("rate_limit.window_seconds must be at least 1, got %d", c.RateLimit.WindowSeconds))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("slug.length", 6)

	v.SetDefault("store.driver", DriverPostgres)

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.database", "slugurl")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 5)
	v.SetDefault("postgres.min_conns", 0)
	v.SetDefault("postgres.max_conn_lifetime", 30*time.Minute)
	v.SetDefault("postgres.max_conn_idle_time", 5*time.Minute)
	v.SetDefault("postgres.health_check_period", time.Minute)

	v.SetDefault("sqlite.dsn", "file:slugurl.db?_pragma=busy_timeout(5000)")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.max_requests", 10)
	v.SetDefault("rate_limit.window_seconds", 60)
	v.SetDefault("rate_limit.key_prefix", "ratelimit")

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.host", "localhost")
	v.SetDefault("nats.port", 4222)
	v.SetDefault("nats.user", "")
	v.SetDefault("nats.password", "")

	v.SetDefault("prometheus.enabled", false)
	v.SetDefault("prometheus.port", 9090)
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.log_level", "LOG_LEVEL")

	v.BindEnv("server.port", "APP_PORT")
	v.BindEnv("slug.length", "SLUG_SIZE")
	v.BindEnv("store.driver", "STORE_DRIVER")

	// PostgreSQL
	v.BindEnv("postgres.url", "DATABASE_URL")
	v.BindEnv("postgres.host", "PG_HOST")
	v.BindEnv("postgres.user", "PG_USER")
	v.BindEnv("postgres.password", "PG_PASSWORD")
	v.BindEnv("postgres.database", "PG_DB")
	v.BindEnv("postgres.port", "PG_PORT")
	v.BindEnv("postgres.sslmode", "PG_SSLMODE")
	v.BindEnv("postgres.max_conns", "PG_MAX_CONNS")

	v.BindEnv("sqlite.dsn", "SQLITE_DSN")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	v.BindEnv("rate_limit.max_requests", "RATE_LIMIT")
	v.BindEnv("rate_limit.window_seconds", "RATE_LIMIT_INTERVAL")

	// NATS
	v.BindEnv("nats.enabled", "NATS_ENABLED")
	v.BindEnv("nats.host", "NATS_HOST")
	v.BindEnv("nats.port", "NATS_PORT")
	v.BindEnv("nats.user", "NATS_USER")
	v.BindEnv("nats.password", "NATS_PASSWORD")

	// Prometheus
	v.BindEnv("prometheus.enabled", "PROM_ENABLED")
	v.BindEnv("prometheus.port", "PROM_PORT")
}
