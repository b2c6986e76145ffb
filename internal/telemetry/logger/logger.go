package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
	// Slog exposes the underlying logger for components that take *slog.Logger.
	Slog() *slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level     string    `koanf:"level"`  // debug, info, warn, error
	Format    string    `koanf:"format"` // json, text
	Output    io.Writer `koanf:"-"`      // defaults to os.Stderr
	AddSource bool      `koanf:"add_source"`
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

type slogLogger struct {
	logger *slog.Logger
	ctx    context.Context
}

// level is shared by every logger so SetLevel applies process-wide.
var level = new(slog.LevelVar)

// New creates a logger from cfg.
func New(cfg Config) (Logger, error) {
	level.Set(parseLevel(cfg.Level))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text", "console":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	return &slogLogger{logger: slog.New(handler), ctx: context.Background()}, nil
}

// SetLevel changes the level of every logger.
func SetLevel(l string) {
	level.Set(parseLevel(l))
}

// GetLevel returns the current level name.
func GetLevel() string {
	switch level.Level() {
	case slog.LevelDebug:
		return "debug"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.DebugContext(l.ctx, msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.InfoContext(l.ctx, msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.WarnContext(l.ctx, msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.ErrorContext(l.ctx, msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...), ctx: l.ctx}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	return &slogLogger{logger: l.logger, ctx: ctx}
}

func (l *slogLogger) Slog() *slog.Logger { return l.logger }

func parseLevel(l string) slog.Level {
	switch strings.ToLower(l) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	l, _ := New(DefaultConfig())
	defaultLogger.Store(l.(*slogLogger))
}

// SetDefault replaces the package default logger and the slog default.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		defaultLogger.Store(sl)
		slog.SetDefault(sl.logger)
	}
}

// Default returns the package default logger.
func Default() Logger {
	return defaultLogger.Load()
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() Logger {
	return &slogLogger{
		logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})),
		ctx:    context.Background(),
	}
}
