// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides leveled, structured logging on top of go-ethereum's slog based logger.
package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to a Handler.
type Logger = ethlog.Logger

// Levels.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Legacy verbosity values accepted by FromLegacyLevel.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// Root returns the root logger.
func Root() Logger {
	return ethlog.Root()
}

// SetDefault sets the default root logger.
func SetDefault(l Logger) {
	ethlog.SetDefault(l)
}

// NewLogger returns a logger with the specified handler set.
func NewLogger(h slog.Handler) Logger {
	return ethlog.NewLogger(h)
}

// FromLegacyLevel converts 0-5 verbosity levels (crit..trace) to slog levels.
func FromLegacyLevel(lvl int) slog.Level {
	return ethlog.FromLegacyLevel(lvl)
}

// NewTerminalHandler returns a human readable handler filtering records below lvl.
// lvl is consulted per record; pass a *slog.LevelVar to change verbosity at runtime.
func NewTerminalHandler(w io.Writer, lvl slog.Leveler, useColor bool) slog.Handler {
	return withLevel(ethlog.NewTerminalHandler(w, useColor), lvl)
}

// NewJSONHandler returns a handler writing one json object per record, filtering records below lvl.
func NewJSONHandler(w io.Writer, lvl slog.Leveler) slog.Handler {
	return withLevel(ethlog.JSONHandler(w), lvl)
}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// WithContext returns a logger that prepends ctx to every record.
// The logger resolves the root logger on every call, so package level loggers follow SetDefault.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) inner() Logger {
	return Root().With(l.ctx...)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	return &lazyLogger{ctx: append(append([]any{}, l.ctx...), ctx...)}
}

func (l *lazyLogger) New(ctx ...any) Logger { return l.With(ctx...) }

func (l *lazyLogger) Log(level slog.Level, msg string, ctx ...any) {
	l.inner().Log(level, msg, ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.inner().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.inner().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.inner().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.inner().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.inner().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.inner().Crit(msg, ctx...) }

func (l *lazyLogger) Write(level slog.Level, msg string, attrs ...any) {
	l.inner().Write(level, msg, attrs...)
}

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (l *lazyLogger) Handler() slog.Handler {
	return l.inner().Handler()
}
