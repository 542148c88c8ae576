//go:build tcell && !ansi

package backend

import (
	"log/slog"

	"github.com/lixenwraith/cellterm/config"
	"github.com/lixenwraith/cellterm/terminal"
	"github.com/lixenwraith/cellterm/terminal/tcellterm"
)

// Kind names the compiled-in backend
const Kind = "tcell"

// tcell always draws on the alternate screen and decodes escapes itself,
// so Session.AltScreen and Input.EscapeTimeout do not apply
func newBackend(cfg config.Config, depth terminal.ColorDepth, log *slog.Logger) terminal.Backend {
	return tcellterm.New(tcellterm.Options{
		MouseCapture: cfg.Session.MouseCapture,
		ColorDepth:   depth,
		Logger:       log,
	})
}
