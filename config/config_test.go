package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sifan077/slugurl/internal/app/slug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, ":3000", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 6, cfg.Slug.Length)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
	assert.False(t, cfg.NATS.Enabled)
	assert.False(t, cfg.Prometheus.Enabled)
	assert.True(t, cfg.App.IsDevelopment())
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/links?sslmode=disable")
	t.Setenv("APP_PORT", "8081")
	t.Setenv("SLUG_SIZE", "9")
	t.Setenv("RATE_LIMIT", "25")
	t.Setenv("RATE_LIMIT_INTERVAL", "30")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/links?sslmode=disable", cfg.Postgres.URL)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 9, cfg.Slug.Length)
	assert.Equal(t, 25, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window())
	assert.False(t, cfg.App.IsDevelopment())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte(`
store:
  driver: sqlite
sqlite:
  dsn: "file:test.db"
slug:
  length: 8
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "file:test.db", cfg.SQLite.DSN)
	assert.Equal(t, 8, cfg.Slug.Length)
}

func TestLoad_RejectsInvalidSlugLength(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SLUG_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slug.length")
}

func TestLoad_PoolDurations(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte(`
postgres:
  max_conn_lifetime: 45m
  health_check_period: 15s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, cfg.Postgres.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, cfg.Postgres.MaxConnIdleTime)
	assert.Equal(t, 15*time.Second, cfg.Postgres.HealthCheckPeriod)
}

func TestLoad_RejectsBadPoolDuration(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte(`
postgres:
  max_conn_idle_time: soon
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	_, err := Load()
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:    ServerConfig{Port: 3000},
			Slug:      SlugConfig{Length: 6},
			Store:     StoreConfig{Driver: DriverPostgres},
			Postgres:  PostgresConfig{MaxConns: 5},
			RateLimit: RateLimitConfig{Enabled: true, MaxRequests: 10, WindowSeconds: 60},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "mongo" }, wantErr: "store.driver"},
		{name: "sqlite without dsn", mutate: func(c *Config) { c.Store.Driver = DriverSQLite }, wantErr: "sqlite.dsn"},
		{name: "negative pool", mutate: func(c *Config) { c.Postgres.MaxConns = -1 }, wantErr: "postgres.max_conns"},
		{name: "negative pool duration", mutate: func(c *Config) { c.Postgres.MaxConnIdleTime = -time.Second }, wantErr: "pool durations"},
		{name: "slug longer than column", mutate: func(c *Config) { c.Slug.Length = slug.MaxLength + 1 }, wantErr: "slug.length"},
		{name: "slug at column size", mutate: func(c *Config) { c.Slug.Length = slug.MaxLength }},
		{name: "zero rate window", mutate: func(c *Config) { c.RateLimit.WindowSeconds = 0 }, wantErr: "rate_limit.window_seconds"},
		{name: "rate limit disabled ignores limits", mutate: func(c *Config) {
			c.RateLimit = RateLimitConfig{}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
