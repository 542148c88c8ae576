// Package ansi drives the terminal directly: raw termios mode, ANSI escape output and a byte-stream input parser
package ansi

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/muesli/termenv"

	"github.com/lixenwraith/cellterm/terminal"
)

// DefaultEscapeTimeout is the duration to wait after ESC to distinguish
// standalone ESC from escape sequence start
const DefaultEscapeTimeout = 50 * time.Millisecond

// pollSlice bounds each blocking read so resize notifications are noticed
const pollSlice = 100 * time.Millisecond

var errNotEntered = errors.New("backend not entered")

// Options configures the ansi backend
type Options struct {
	AltScreen     bool
	MouseCapture  bool
	ColorDepth    terminal.ColorDepth // DepthAuto detects from the environment
	EscapeTimeout time.Duration       // 0 uses DefaultEscapeTimeout
	Logger        *slog.Logger
}

// Backend implements terminal.Backend over the process's controlling terminal
type Backend struct {
	opts Options
	log  *slog.Logger
	open func() (device, error)

	dev     device
	out     *output
	entered bool
	depth   terminal.ColorDepth

	parser    parser
	readBuf   []byte
	lastInput time.Time
	resizeCh  chan os.Signal
}

var _ terminal.Backend = (*Backend)(nil)

// New creates a backend; the terminal is untouched until Enter
func New(opts Options) *Backend {
	return newBackend(opts, openTTY)
}

func newBackend(opts Options, open func() (device, error)) *Backend {
	if opts.EscapeTimeout <= 0 {
		opts.EscapeTimeout = DefaultEscapeTimeout
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Backend{
		opts:    opts,
		log:     log,
		open:    open,
		readBuf: make([]byte, 256),
	}
}

// Name implements terminal.Backend
func (b *Backend) Name() string {
	return "ansi"
}

// ColorDepth returns the depth in effect while entered
func (b *Backend) ColorDepth() terminal.ColorDepth {
	return b.depth
}

// Enter implements terminal.Backend
func (b *Backend) Enter() error {
	if b.entered {
		return nil
	}

	if b.dev == nil {
		dev, err := b.open()
		if err != nil {
			return err
		}
		b.dev = dev
	}
	if err := b.dev.MakeRaw(); err != nil {
		return terminal.WrapUnavailable(fmt.Errorf("raw mode: %w", err))
	}

	b.depth = b.opts.ColorDepth
	if b.depth == terminal.DepthAuto {
		b.depth = depthFromProfile(b.dev.Profile())
	}
	b.out = newOutput(b.dev, b.depth)
	b.entered = true

	if b.opts.AltScreen {
		b.out.raw(csiAltScreenEnter)
	}
	b.out.raw(csiAutoWrapOff)
	if b.opts.MouseCapture {
		b.out.raw(csiMouseEnable)
	}
	if err := b.out.flush(); err != nil {
		if lerr := b.Leave(); lerr != nil {
			b.log.Error("restore after failed enter", "error", lerr)
		}
		return terminal.WrapIO("enter", err)
	}

	b.resizeCh = make(chan os.Signal, 1)
	b.dev.NotifyResize(b.resizeCh)

	b.log.Debug("raw mode entered",
		"color_depth", b.depth.String(),
		"alt_screen", b.opts.AltScreen,
		"mouse", b.opts.MouseCapture)
	return nil
}

// Leave implements terminal.Backend
// Every restore step runs even when an earlier one fails; failures are joined
func (b *Backend) Leave() error {
	if !b.entered {
		return nil
	}
	b.entered = false

	if b.resizeCh != nil {
		b.dev.StopResize(b.resizeCh)
		b.resizeCh = nil
	}

	// A failed write poisons the buffered writer; restore bytes go through a fresh one
	if b.out.err() != nil {
		b.out = newOutput(b.dev, b.depth)
	}
	b.out.reset()
	b.out.raw(csiCursorShow)
	if b.opts.MouseCapture {
		b.out.raw(csiMouseDisable)
	}
	b.out.raw(csiAutoWrapOn)
	if b.opts.AltScreen {
		b.out.raw(csiAltScreenExit)
	}
	flushErr := b.out.flush()
	restoreErr := b.dev.Restore()

	b.parser = parser{}
	return terminal.WrapIO("leave", errors.Join(flushErr, restoreErr))
}

// Size implements terminal.Backend
func (b *Backend) Size() (int, int, error) {
	if !b.entered {
		return 0, 0, fmt.Errorf("%w: %w", terminal.ErrSizeUnavailable, errNotEntered)
	}
	w, h, err := b.dev.Size()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", terminal.ErrSizeUnavailable, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: reported %dx%d", terminal.ErrSizeUnavailable, w, h)
	}
	return w, h, nil
}

func (b *Backend) check(op string) error {
	if !b.entered {
		return terminal.WrapIO(op, errNotEntered)
	}
	return terminal.WrapIO(op, b.out.err())
}

// MoveCursorTo implements terminal.Backend
func (b *Backend) MoveCursorTo(x, y int) error {
	if err := b.check("move cursor"); err != nil {
		return err
	}
	b.out.moveTo(x, y)
	return nil
}

// SetStyle implements terminal.Backend
func (b *Backend) SetStyle(s terminal.Style) error {
	if err := b.check("set style"); err != nil {
		return err
	}
	b.out.setStyle(s)
	return nil
}

// WriteText implements terminal.Backend
func (b *Backend) WriteText(s string) error {
	if err := b.check("write text"); err != nil {
		return err
	}
	b.out.text(s)
	return nil
}

// HideCursor implements terminal.Backend
func (b *Backend) HideCursor() error {
	if err := b.check("hide cursor"); err != nil {
		return err
	}
	b.out.raw(csiCursorHide)
	return nil
}

// ShowCursor implements terminal.Backend
func (b *Backend) ShowCursor() error {
	if err := b.check("show cursor"); err != nil {
		return err
	}
	b.out.raw(csiCursorShow)
	return nil
}

// Clear implements terminal.Backend
func (b *Backend) Clear() error {
	if err := b.check("clear"); err != nil {
		return err
	}
	b.out.clear()
	return nil
}

// Flush implements terminal.Backend
func (b *Backend) Flush() error {
	if !b.entered {
		return terminal.WrapIO("flush", errNotEntered)
	}
	return terminal.WrapIO("flush", b.out.flush())
}

// PollEvent implements terminal.Backend
func (b *Backend) PollEvent(timeout time.Duration) (terminal.NativeEvent, error) {
	if !b.entered {
		return nil, terminal.WrapIO("poll", errNotEntered)
	}
	if ev, ok := b.parser.next(); ok {
		return ev, nil
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		select {
		case <-b.resizeCh:
			w, h, err := b.dev.Size()
			if err != nil {
				b.log.Warn("size unavailable after resize", "error", err)
				break
			}
			return resizeInput{width: w, height: h}, nil
		default:
		}

		wait := pollSlice
		switch {
		case timeout == 0:
			wait = 0
		case timeout > 0:
			wait = min(wait, time.Until(deadline))
		}
		if b.parser.pending() {
			wait = min(wait, max(0, b.opts.EscapeTimeout-time.Since(b.lastInput)))
		}

		n, err := b.dev.ReadTimeout(b.readBuf, max(0, wait))
		if err != nil {
			return nil, terminal.WrapIO("read input", err)
		}
		if n > 0 {
			b.lastInput = time.Now()
			b.parser.feed(b.readBuf[:n])
		} else if b.parser.pending() && time.Since(b.lastInput) >= b.opts.EscapeTimeout {
			b.parser.expire()
		}

		if ev, ok := b.parser.next(); ok {
			return ev, nil
		}
		if timeout == 0 || (timeout > 0 && !time.Now().Before(deadline)) {
			return nil, nil
		}
	}
}

// Translate implements terminal.Backend
func (b *Backend) Translate(ev terminal.NativeEvent) (terminal.Event, bool) {
	e, ok := translate(ev)
	if !ok {
		if u, isUnknown := ev.(unknownInput); isUnknown {
			b.log.Debug("unrecognized input sequence", "seq", fmt.Sprintf("%q", u.seq))
		}
	}
	return e, ok
}

func depthFromProfile(p termenv.Profile) terminal.ColorDepth {
	switch p {
	case termenv.TrueColor:
		return terminal.DepthTrueColor
	case termenv.ANSI256:
		return terminal.Depth256
	case termenv.ANSI:
		return terminal.Depth16
	}
	return terminal.DepthNone
}
