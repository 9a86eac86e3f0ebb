package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// ParseLevel converts a level name to a zapcore.Level.
// Accepts case-insensitive: debug, info, warn, warning, error, fatal.
// Unknown or empty values fall back to the provided default.
//
// This is a pure function with no side effects.
func ParseLevel(name string, fallback zapcore.Level) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return fallback
	}
}
