package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// A Level is a logging priority. Higher levels are more important.
type Level int8

// Logging levels, numerically aligned with zapcore.
const (
	DebugLevel Level = -1
	InfoLevel  Level = 0
	WarnLevel  Level = 1
	ErrorLevel Level = 2
	PanicLevel Level = 4
	FatalLevel Level = 5
)

// String returns the name of the level.
func (l Level) String() string {
	return zapcore.Level(l).String()
}

// ParseLevel parses a level name into a Level value.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warning", "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "panic":
		return PanicLevel, nil
	case "fatal":
		return FatalLevel, nil
	}
	return InfoLevel, fmt.Errorf("invalid log level: %v", level)
}

// Logger wraps a zap logger with a mutable level and dotted sub-logger
// naming. Every package derives its own logger through Named so levels
// can be tuned per package at runtime.
type Logger struct {
	*zap.Logger
	config *zap.Config
	name   string
}

// New builds a Logger over an existing core and its config.
func New(core *zapcore.Core, cfg *zap.Config) *Logger {
	return &Logger{
		Logger: zap.New(*core),
		config: cfg,
	}
}

// Named returns a child logger whose name extends this logger's with a
// dot separator. The child carries its own level.
func (log *Logger) Named(name string) *Logger {
	if log.name != "" {
		name = fmt.Sprintf("%s.%s", log.name, name)
	}
	c := log.clone()
	return &Logger{
		Logger: c.Logger.Named(name),
		config: c.config,
		name:   name,
	}
}

// GetLevel returns the current level of this logger.
func (log *Logger) GetLevel() Level {
	return Level(log.config.Level.Level())
}

// SetLevel changes the level of this logger, a no-op when the level is
// already set.
func (log *Logger) SetLevel(level Level) {
	lvl := zapcore.Level(level)
	if log.config.Level.Level() == lvl {
		return
	}
	log.config.Level.SetLevel(lvl)
}

// AtExit flushes any buffered entries, deferred at process shutdown.
func (log *Logger) AtExit() {
	if log.Logger != nil {
		log.Logger.Sync()
	}
}

func (log *Logger) clone() *Logger {
	cfg := cloneConfig(log.config)
	zl, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return &Logger{
		Logger: zl,
		config: cfg,
		name:   log.name,
	}
}

func cloneConfig(cfg *zap.Config) *zap.Config {
	c := *cfg
	c.Level = zap.NewAtomicLevelAt(cfg.Level.Level())
	c.InitialFields = make(map[string]interface{}, len(cfg.InitialFields))
	for k, v := range cfg.InitialFields {
		c.InitialFields[k] = v
	}
	if cfg.Sampling != nil {
		sampling := *cfg.Sampling
		c.Sampling = &sampling
	}
	return &c
}

// NewLoggerFromEnv creates a logger suited to the given environment,
// "dev" producing human readable console output at debug level and
// anything else JSON at info level.
func NewLoggerFromEnv(env string) *Logger {
	if env == "dev" {
		return newLogger(zap.Config{
			Level:       zap.NewAtomicLevelAt(zapcore.Level(DebugLevel)),
			Development: true,
			Encoding:    "console",
			EncoderConfig: zapcore.EncoderConfig{
				CallerKey:      "C",
				EncodeCaller:   zapcore.ShortCallerEncoder,
				EncodeDuration: zapcore.StringDurationEncoder,
				EncodeLevel:    zapcore.CapitalLevelEncoder,
				EncodeTime:     zapcore.ISO8601TimeEncoder,
				LevelKey:       "L",
				LineEnding:     "\n",
				MessageKey:     "M",
				NameKey:        "N",
				TimeKey:        "T",
			},
			OutputPaths:      []string{"stdout"},
			ErrorOutputPaths: []string{"stderr"},
		})
	}
	return newLogger(zap.Config{
		Level:    zap.NewAtomicLevelAt(zapcore.Level(InfoLevel)),
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			CallerKey:      "caller",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeName:     zapcore.FullNameEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "level",
			LineEnding:     "\n",
			MessageKey:     "message",
			NameKey:        "logger",
			StacktraceKey:  "stacktrace",
			TimeKey:        "@timestamp",
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

func newLogger(cfg zap.Config) *Logger {
	var encoder zapcore.Encoder
	if cfg.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	}
	core := zapcore.NewCore(encoder, os.Stdout, cfg.Level.Level())
	return New(&core, &cfg)
}

// NewTestLogger creates a verbose console logger for use in tests.
func NewTestLogger() *Logger {
	return NewLoggerFromEnv("dev")
}
