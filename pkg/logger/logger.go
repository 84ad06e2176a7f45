package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Config holds logger configuration shared by the server and CLI paths.
type Config struct {
	Level     LogLevel `json:"level"`
	Format    string   `json:"format"` // "json", "text"
	Output    string   `json:"output"` // "stdout", "stderr", file path
	Component string   `json:"component"`
}

// Logger wraps slog.Logger so call sites stay decoupled from handler setup.
type Logger struct {
	*slog.Logger
	output io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: "json",
		Output: "stdout",
	}
}

// New builds a logger from config, falling back to sane defaults for any
// unrecognised level, format or output value.
func New(config Config) *Logger {
	var level slog.Level
	switch config.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var output io.Writer
	switch config.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		if file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666); err == nil {
			output = file
		} else {
			output = os.Stdout
		}
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if config.Format == "text" {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	slogLogger := slog.New(handler)
	if config.Component != "" {
		slogLogger = slogLogger.With("component", config.Component)
	}

	return &Logger{Logger: slogLogger, output: output}
}

// WithContext returns a child logger carrying extra key/value context.
func (l *Logger) WithContext(args ...interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		output: l.output,
	}
}

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithContext("component", component)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.Logger.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.Logger.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.Logger.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.Logger.Error(msg, args...)
}

// Fatal logs at error level and exits. The short sleep lets async handlers
// drain before the process dies.
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.Logger.Error(msg, args...)
	time.Sleep(100 * time.Millisecond)
	os.Exit(1)
}

// Close releases the output when it is a file.
func (l *Logger) Close() error {
	if closer, ok := l.output.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
