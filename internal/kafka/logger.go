// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// nopLogger, the default logger, drops everything.
type nopLogger struct{}

func (*nopLogger) Level() kgo.LogLevel { return kgo.LogLevelNone }
func (*nopLogger) Log(kgo.LogLevel, string, ...any) {
}

// slogLogger adapts a slog.Logger to the kgo.Logger interface so the
// franz-go client logs through the daemon's sinks.
type slogLogger struct {
	log *slog.Logger
}

// NewLogger wraps log so it satisfies kgo.Logger.
func NewLogger(log *slog.Logger) kgo.Logger {
	return &slogLogger{log: log}
}

func (l *slogLogger) Level() kgo.LogLevel { return kgo.LogLevelInfo }

func (l *slogLogger) Log(level kgo.LogLevel, msg string, keyvals ...any) {
	l.log.Log(context.Background(), slogLevel(level), msg, keyvals...)
}

func slogLevel(level kgo.LogLevel) slog.Level {
	switch level {
	case kgo.LogLevelError:
		return slog.LevelError
	case kgo.LogLevelWarn:
		return slog.LevelWarn
	case kgo.LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
