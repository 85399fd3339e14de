// Package logging sets up the slog logger shared by the pipeline and the dashboard:
// a text console handler plus, when a log directory is configured, a JSON handler
// over a weekly rotating file
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/giygas/drugs-eda/config"
)

// Options configures the global logger
type Options struct {
	Dir            string // empty logs to the console only
	RetentionWeeks int
	MaxFileSize    int64
	Env            config.Environment
	Level          string // console level override
	Verbose        bool
	Console        io.Writer // defaults to os.Stderr
}

type LoggingService struct {
	Logger *slog.Logger
	file   *RotatingLogger
}

// Close releases the log file, if any
func (s *LoggingService) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

var DefaultLoggingService *LoggingService

// NewLoggingService builds a logger from opt. When the log file cannot be opened the
// service falls back to the console and returns the error alongside it.
func NewLoggingService(opt Options) (*LoggingService, error) {
	console := opt.Console
	if console == nil {
		console = os.Stderr
	}
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{
		Level: GetConsoleLogLevel(opt.Env, opt.Level, opt.Verbose),
	})

	if opt.Dir == "" {
		return &LoggingService{Logger: slog.New(consoleHandler)}, nil
	}

	retention := opt.RetentionWeeks
	if retention <= 0 {
		retention = 4
	}
	rl := NewRotatingLoggerWithSizeLimit(opt.Dir, retention, opt.MaxFileSize)
	if err := rl.Open(); err != nil {
		return &LoggingService{Logger: slog.New(consoleHandler)}, err
	}

	fileHandler := slog.NewJSONHandler(rl, &slog.HandlerOptions{Level: GetFileLogLevel()})
	return &LoggingService{
		Logger: slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}),
		file:   rl,
	}, nil
}

// Init replaces the global logger. The previous service is closed.
func Init(opt Options) error {
	svc, err := NewLoggingService(opt)
	previous := DefaultLoggingService
	DefaultLoggingService = svc
	slog.SetDefault(svc.Logger)
	if previous != nil {
		_ = previous.Close()
	}
	return err
}

// InitLogger initializes the global logger with default levels
func InitLogger(logDir string) {
	if err := Init(Options{Dir: logDir, Env: config.EnvDevelopment}); err != nil {
		Error("Failed to open log file, logging to console only", "dir", logDir, "error", err)
	}
}

// Close closes the global logger's file
func Close() error {
	return DefaultLoggingService.Close()
}

// parseLogLevel maps a level name to a slog level, info when unknown
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// GetConsoleLogLevel returns the console level for env. The test environment stays
// quiet unless verbose and ignores overrides; prod and staging default to warn.
func GetConsoleLogLevel(env config.Environment, levelStr string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}
	if strings.TrimSpace(levelStr) != "" {
		return parseLogLevel(levelStr)
	}
	if env == config.EnvProduction || env == config.EnvStaging {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// GetFileLogLevel returns the file level, which always keeps debug records
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}

var fallback = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

func current() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return fallback
	}
	return DefaultLoggingService.Logger
}

// Logger returns the logger of the default service, or the stderr fallback
func Logger() *slog.Logger {
	return current()
}

func Info(msg string, args ...any)  { current().Info(msg, args...) }
func Error(msg string, args ...any) { current().Error(msg, args...) }
func Warn(msg string, args ...any)  { current().Warn(msg, args...) }
func Debug(msg string, args ...any) { current().Debug(msg, args...) }

// multiHandler fans records out to every handler that accepts their level
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: out}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: out}
}
