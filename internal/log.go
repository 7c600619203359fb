package internal

import (
	"context"
	"log/slog"
)

// LevelTrace is used for per-transaction register traffic.
const LevelTrace slog.Level = slog.LevelDebug - 2

// LogAttrs is a helper function that is used by all package loggers.
// A nil logger discards the record.
func LogAttrs(l *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if l != nil {
		l.LogAttrs(context.Background(), level, msg, attrs...)
	}
}

// SlogReg returns a slog.Attr for a 16-bit register address or value
// without allocating a formatted string.
func SlogReg(key string, v uint16) slog.Attr {
	return slog.Uint64(key, uint64(v))
}

// SlogID returns a slog.Attr for a 32-bit PHY identifier.
func SlogID(key string, id uint32) slog.Attr {
	return slog.Uint64(key, uint64(id))
}
