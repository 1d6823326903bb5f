package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields holds structured logging context
type Fields map[string]any

// Logger is the logging interface used throughout the application
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type zapLogger struct {
	base *zap.Logger
}

var (
	mu            sync.RWMutex
	defaultLogger Logger = newZapLogger(zapcore.InfoLevel)
)

func newZapLogger(level zapcore.Level) *zapLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return &zapLogger{base: zap.New(core)}
}

// Configure replaces the default logger with one at the given level.
// Unknown levels fall back to info.
func Configure(level string) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()
	defaultLogger = newZapLogger(parsed)
}

// Default returns the process-wide logger
func Default() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// WithFields returns the default logger with additional context
func WithFields(fields Fields) Logger {
	return Default().WithFields(fields)
}

func zapFields(fields []Fields) []zap.Field {
	var out []zap.Field
	for _, fs := range fields {
		for k, v := range fs {
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}

func (l *zapLogger) Debug(msg string, fields ...Fields) {
	l.base.Debug(msg, zapFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Fields) {
	l.base.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Fields) {
	l.base.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(err error, msg string, fields ...Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l.base.Error(msg, zf...)
}

func (l *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{base: l.base.With(zapFields([]Fields{fields})...)}
}
