package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/sifan077/slugurl/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const (
	encodingConsole = "console"
	encodingJSON    = "json"
)

// Config drives how the zap logger is built.
type Config struct {
	Development bool
	Level       string
	// Encoding is "console" or "json"; empty picks console in development.
	Encoding string
}

// FromApp derives logger settings from the loaded application config.
func FromApp(app config.AppConfig) Config {
	return Config{
		Development: app.IsDevelopment(),
		Level:       app.LogLevel,
	}
}

// FromEnv reads APP_ENV and LOG_LEVEL directly, for use before config is loaded.
func FromEnv() Config {
	return FromApp(config.AppConfig{
		Env:      os.Getenv("APP_ENV"),
		LogLevel: os.Getenv("LOG_LEVEL"),
	})
}

// MustInit builds a logger, installs it as zap's global and panics on bad config.
func MustInit(cfg Config) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(l)
	return l
}

// Sync flushes the global logger. Errors from stderr being a terminal or pipe are ignored.
func Sync() error {
	err := zap.L().Sync()
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, os.ErrInvalid) {
		return nil
	}
	return err
}

// New returns a zap.Logger configured according to cfg.
func New(cfg Config) (*zap.Logger, error) {
	level, err := parseLevel(cfg)
	if err != nil {
		return nil, err
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = encodingJSON
		if cfg.Development {
			encoding = encodingConsole
		}
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Development,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig(encoding == encodingConsole),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if !cfg.Development {
		zapCfg.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}

	return zapCfg.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

func parseLevel(cfg Config) (zapcore.Level, error) {
	if cfg.Level == "" {
		if cfg.Development {
			return zapcore.DebugLevel, nil
		}
		return zapcore.InfoLevel, nil
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return level, fmt.Errorf("logger: invalid level %q: %w", cfg.Level, err)
	}
	return level, nil
}

func encoderConfig(console bool) zapcore.EncoderConfig {
	enc := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	if console {
		enc.ConsoleSeparator = " | "
		enc.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime + ".000")
		enc.EncodeLevel = levelEncoder(colorize())
	}
	return enc
}

var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel:  "\x1b[36m",
	zapcore.InfoLevel:   "\x1b[32m",
	zapcore.WarnLevel:   "\x1b[33m",
	zapcore.ErrorLevel:  "\x1b[31m",
	zapcore.DPanicLevel: "\x1b[35m",
	zapcore.PanicLevel:  "\x1b[35m",
	zapcore.FatalLevel:  "\x1b[31m",
}

// levelEncoder pads level names to a fixed width, wrapping them in ANSI colours when asked.
func levelEncoder(color bool) zapcore.LevelEncoder {
	return func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		label := fmt.Sprintf("%-5s", level.CapitalString())
		if c, ok := levelColors[level]; ok && color {
			label = c + label + "\x1b[0m"
		}
		enc.AppendString(label)
	}
}

// colorize reports whether stderr, where logs go, is an interactive terminal.
func colorize() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}
