// Package backend picks the terminal backend at build time and opens sessions on it
//
// Build with no tags (or -tags ansi) for the raw ANSI backend, or -tags tcell
// for the tcell backend. Both tags together fail to compile.
package backend

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lixenwraith/cellterm/config"
	"github.com/lixenwraith/cellterm/terminal"
)

// New builds the compiled-in backend from cfg without touching the terminal
func New(cfg config.Config, log *slog.Logger) (terminal.Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	depth, err := cfg.ColorDepth()
	if err != nil {
		return nil, err
	}
	return newBackend(cfg, depth, log), nil
}

// Open builds the compiled-in backend and enters a session on it
// Failures to acquire the terminal match terminal.ErrTerminalUnavailable.
func Open(cfg config.Config, log *slog.Logger) (*terminal.Session, error) {
	b, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	return open(b, cfg, log)
}

func open(b terminal.Backend, cfg config.Config, log *slog.Logger) (*terminal.Session, error) {
	s := terminal.NewSession(b, SessionOptions(cfg, log)...)
	if err := s.Enter(); err != nil {
		if !errors.Is(err, terminal.ErrTerminalUnavailable) {
			err = terminal.WrapUnavailable(err)
		}
		return nil, err
	}
	if log != nil {
		log.Info("terminal session opened", "backend", b.Name())
	}
	return s, nil
}

// SessionOptions maps cfg onto session options
func SessionOptions(cfg config.Config, log *slog.Logger) []terminal.SessionOption {
	opts := []terminal.SessionOption{
		terminal.WithLogger(log),
		terminal.WithHiddenCursor(cfg.Session.HideCursor),
	}
	if cfg.Session.RestoreOnSignal {
		opts = append(opts, terminal.WithSignalRestore(nil))
	}
	return opts
}
