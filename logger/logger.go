// Package logger builds the slog logger handed to sessions and backends
//
// The terminal is the UI while a session is active, so records go to a file
// or nowhere; never to stdout or stderr.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/lixenwraith/cellterm/config"
)

// EnvLevel overrides the configured level
const EnvLevel = "CELLTERM_LOG_LEVEL"

// Logger wraps slog.Logger with a mutable level and the backing file, if any
type Logger struct {
	*slog.Logger

	level *slog.LevelVar
	mu    sync.Mutex
	file  *os.File
}

// New opens the configured log file; with no file it returns a discarding logger
func New(cfg config.Log) (*Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if env := os.Getenv(EnvLevel); env != "" {
		if lvl, err = ParseLevel(env); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLevel, err)
		}
	}

	if cfg.File == "" {
		return &Logger{
			Logger: slog.New(slog.DiscardHandler),
			level:  levelVar(lvl),
		}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := NewWriter(f, lvl, strings.EqualFold(cfg.Format, "json"))
	l.file = f
	return l, nil
}

// NewWriter logs to w at lvl
func NewWriter(w io.Writer, lvl slog.Level, useJSON bool) *Logger {
	level := levelVar(lvl)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler), level: level}
}

// ParseLevel accepts debug, info, warn and error in any case; empty is info
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// SetLevel changes the level of every logger derived from l
func (l *Logger) SetLevel(lvl slog.Level) {
	l.level.Set(lvl)
}

// Level returns the current level
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Close closes the log file; safe to call more than once
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func levelVar(lvl slog.Level) *slog.LevelVar {
	v := new(slog.LevelVar)
	v.Set(lvl)
	return v
}
