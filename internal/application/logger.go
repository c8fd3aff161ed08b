package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// StructuredLogger provides structured logging with context.
// Entries are JSON lines; stdout is never used because the stdio
// transport owns it.
type StructuredLogger struct {
	logger *slog.Logger
}

// NewStructuredLogger creates a JSON logger writing to w at level.
func NewStructuredLogger(w io.Writer, level slog.Level) *StructuredLogger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &StructuredLogger{logger: slog.New(handler)}
}

// NewDiscardLogger returns a logger that drops everything.
func NewDiscardLogger() *StructuredLogger {
	return NewStructuredLogger(io.Discard, slog.LevelError+1)
}

// ParseLogLevel maps debug, info, warn and error to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", s)
	}
}

// Slog exposes the underlying logger.
func (l *StructuredLogger) Slog() *slog.Logger {
	return l.logger
}

// LogDebug logs a debug message with context.
func (l *StructuredLogger) LogDebug(message string, context map[string]interface{}) {
	l.log(slog.LevelDebug, message, nil, context)
}

// LogInfo logs an informational message with context.
func (l *StructuredLogger) LogInfo(message string, context map[string]interface{}) {
	l.log(slog.LevelInfo, message, nil, context)
}

// LogError logs an error message with context.
func (l *StructuredLogger) LogError(message string, err error, context map[string]interface{}) {
	l.log(slog.LevelError, message, err, context)
}

func (l *StructuredLogger) log(level slog.Level, message string, err error, fields map[string]interface{}) {
	if l == nil || !l.logger.Enabled(context.Background(), level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(fields)+1)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	// Sorted for stable output
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}

	l.logger.LogAttrs(context.Background(), level, message, attrs...)
}
