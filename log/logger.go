// Package log provides structured logging for courier.
//
// Two logger variants are available:
//   - Logger: Non-sugared zap.Logger for the upload path (structured fields)
//   - SugaredLogger: Printf-style logging for CLI surfaces (convenience over performance)
//
// Use Logger.Sugar() to obtain a SugaredLogger when needed.
// The auth token must never be passed to any logging call.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/botpost/courier/types"
)

// Logger provides structured logging with tool context.
// Every entry carries the tool name and version so journal and mirror
// warnings can be traced to the emitting binary.
type Logger struct {
	zap *zap.Logger
}

// SugaredLogger provides printf-style logging for CLI surfaces.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a JSON logger writing to os.Stderr.
func NewLogger() *Logger {
	return newLoggerWithWriter(os.Stderr, zapcore.InfoLevel)
}

// NewVerboseLogger creates a logger that also emits debug entries.
func NewVerboseLogger() *Logger {
	return newLoggerWithWriter(os.Stderr, zapcore.DebugLevel)
}

// NewNop returns a logger that discards everything. Used as the default
// when no logger is injected.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// WithOutput returns a new logger with a different output writer.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	core := newCore(w, zapcore.DebugLevel)
	return &Logger{zap: l.zap.WithOptions(zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))}
}

func newLoggerWithWriter(w io.Writer, level zapcore.Level) *Logger {
	zapLogger := zap.New(newCore(w, level)).With(
		zap.String("tool", "courier"),
		zap.String("version", types.Version),
	)
	return &Logger{zap: zapLogger}
}

func newCore(w io.Writer, level zapcore.Level) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, zap.Any("fields", fields))
}

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, zap.Any("fields", fields))
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, zap.Any("fields", fields))
}

// Error logs an error message.
func (l *Logger) Error(message string, fields map[string]any) {
	l.zap.Error(message, zap.Any("fields", fields))
}

// Sugar returns a SugaredLogger for printf-style logging.
func (l *Logger) Sugar() *SugaredLogger {
	return &SugaredLogger{sugar: l.zap.Sugar()}
}

// Debugf logs a debug message with printf-style formatting.
func (s *SugaredLogger) Debugf(template string, args ...any) {
	s.sugar.Debugf(template, args...)
}

// Infof logs an info message with printf-style formatting.
func (s *SugaredLogger) Infof(template string, args ...any) {
	s.sugar.Infof(template, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (s *SugaredLogger) Warnf(template string, args ...any) {
	s.sugar.Warnf(template, args...)
}

// Errorf logs an error message with printf-style formatting.
func (s *SugaredLogger) Errorf(template string, args ...any) {
	s.sugar.Errorf(template, args...)
}

// Debugw logs a debug message with key-value pairs.
func (s *SugaredLogger) Debugw(msg string, keysAndValues ...any) {
	s.sugar.Debugw(msg, keysAndValues...)
}

// Infow logs an info message with key-value pairs.
func (s *SugaredLogger) Infow(msg string, keysAndValues ...any) {
	s.sugar.Infow(msg, keysAndValues...)
}

// Warnw logs a warning message with key-value pairs.
func (s *SugaredLogger) Warnw(msg string, keysAndValues ...any) {
	s.sugar.Warnw(msg, keysAndValues...)
}

// Errorw logs an error message with key-value pairs.
func (s *SugaredLogger) Errorw(msg string, keysAndValues ...any) {
	s.sugar.Errorw(msg, keysAndValues...)
}

// With returns a SugaredLogger with additional context fields.
func (s *SugaredLogger) With(args ...any) *SugaredLogger {
	return &SugaredLogger{sugar: s.sugar.With(args...)}
}
