//go:build !tcell

package backend

import (
	"log/slog"

	"github.com/lixenwraith/cellterm/config"
	"github.com/lixenwraith/cellterm/terminal"
	"github.com/lixenwraith/cellterm/terminal/ansi"
)

// Kind names the compiled-in backend
const Kind = "ansi"

func newBackend(cfg config.Config, depth terminal.ColorDepth, log *slog.Logger) terminal.Backend {
	return ansi.New(ansi.Options{
		AltScreen:     cfg.Session.AltScreen,
		MouseCapture:  cfg.Session.MouseCapture,
		ColorDepth:    depth,
		EscapeTimeout: cfg.Input.EscapeTimeout,
		Logger:        log,
	})
}
