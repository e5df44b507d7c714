package logger

import (
	"testing"

	"github.com/sifan077/slugurl/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestFromApp(t *testing.T) {
	dev := FromApp(config.AppConfig{Env: "development", LogLevel: "warn"})
	assert.True(t, dev.Development)
	assert.Equal(t, "warn", dev.Level)

	prod := FromApp(config.AppConfig{Env: "production"})
	assert.False(t, prod.Development)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")

	cfg := FromEnv()
	assert.False(t, cfg.Development)
	assert.Equal(t, "warn", cfg.Level)
}

func TestNew_Level(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{name: "explicit", cfg: Config{Level: "WARN"}, enabled: zapcore.WarnLevel, muted: zapcore.InfoLevel},
		{name: "development default", cfg: Config{Development: true}, enabled: zapcore.DebugLevel, muted: zapcore.DebugLevel - 1},
		{name: "production default", cfg: Config{}, enabled: zapcore.InfoLevel, muted: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.muted))
		})
	}

	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestMustInit_ReplacesGlobal(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	l := MustInit(Config{Development: true, Level: "error"})
	assert.Same(t, l, zap.L())
	_ = Sync()

	assert.Panics(t, func() { MustInit(Config{Level: "chatty"}) })
}

func TestLevelEncoder(t *testing.T) {
	enc := &sliceEncoder{}
	levelEncoder(false)(zapcore.InfoLevel, enc)
	levelEncoder(true)(zapcore.ErrorLevel, enc)

	require.Len(t, enc.items, 2)
	assert.Equal(t, "INFO ", enc.items[0])
	assert.Equal(t, "\x1b[31mERROR\x1b[0m", enc.items[1])
}

type sliceEncoder struct {
	zapcore.PrimitiveArrayEncoder
	items []string
}

func (e *sliceEncoder) AppendString(s string) { e.items = append(e.items, s) }
