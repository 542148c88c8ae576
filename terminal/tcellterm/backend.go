// Package tcellterm implements the terminal backend on top of tcell
package tcellterm

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/lixenwraith/cellterm/terminal"
)

// leaveWait bounds how long Leave waits for the event pump to stop
const leaveWait = 100 * time.Millisecond

var errNotEntered = errors.New("backend not entered")

// Options configures the tcell backend
type Options struct {
	MouseCapture bool
	// ColorDepth downsamples colors before they reach tcell; DepthAuto leaves it to tcell's terminfo
	ColorDepth terminal.ColorDepth
	Logger     *slog.Logger
}

// Backend implements terminal.Backend over a tcell.Screen
type Backend struct {
	opts      Options
	log       *slog.Logger
	newScreen func() (tcell.Screen, error)

	screen  tcell.Screen
	entered bool

	// Write position and style set by the rendering primitives
	x, y  int
	style tcell.Style

	events chan tcell.Event
	quit   chan struct{}
	done   chan struct{}

	// Buttons held at the last mouse event, to tell press, drag and release apart
	lastButtons tcell.ButtonMask
}

var _ terminal.Backend = (*Backend)(nil)

// New creates a backend on the process's terminal; nothing is touched until Enter
func New(opts Options) *Backend {
	return newBackend(opts, tcell.NewScreen)
}

// NewWithScreen creates a backend driving screen, e.g. a tcell simulation screen
// The screen must not be initialized; Enter does that
func NewWithScreen(screen tcell.Screen, opts Options) *Backend {
	return newBackend(opts, func() (tcell.Screen, error) { return screen, nil })
}

func newBackend(opts Options, newScreen func() (tcell.Screen, error)) *Backend {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Backend{
		opts:      opts,
		log:       log,
		newScreen: newScreen,
		style:     tcell.StyleDefault,
	}
}

// Name implements terminal.Backend
func (b *Backend) Name() string {
	return "tcell"
}

// Screen returns the underlying screen, nil before the first Enter
func (b *Backend) Screen() tcell.Screen {
	return b.screen
}

// Enter implements terminal.Backend
func (b *Backend) Enter() error {
	if b.entered {
		return nil
	}

	screen, err := b.newScreen()
	if err != nil {
		return terminal.WrapUnavailable(err)
	}
	if err := screen.Init(); err != nil {
		return terminal.WrapUnavailable(err)
	}
	if b.opts.MouseCapture {
		screen.EnableMouse()
	}

	b.screen = screen
	b.entered = true
	b.x, b.y = 0, 0
	b.style = tcell.StyleDefault
	b.lastButtons = 0

	b.events = make(chan tcell.Event, 256)
	b.quit = make(chan struct{})
	b.done = make(chan struct{})
	go b.pump(screen, b.events, b.quit, b.done)

	b.log.Debug("tcell screen initialized", "mouse", b.opts.MouseCapture)
	return nil
}

// pump forwards screen events so PollEvent can wait with a timeout
func (b *Backend) pump(screen tcell.Screen, events chan<- tcell.Event, quit, done chan struct{}) {
	defer close(done)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			// Screen finalized
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

// Leave implements terminal.Backend
func (b *Backend) Leave() error {
	if !b.entered {
		return nil
	}
	b.entered = false

	close(b.quit)
	if b.opts.MouseCapture {
		b.screen.DisableMouse()
	}
	b.screen.ShowCursor(0, 0)
	b.screen.Fini()

	select {
	case <-b.done:
	case <-time.After(leaveWait):
		b.log.Warn("event pump still running after screen fini")
	}
	return nil
}

// Size implements terminal.Backend
func (b *Backend) Size() (int, int, error) {
	if !b.entered {
		return 0, 0, fmt.Errorf("%w: %w", terminal.ErrSizeUnavailable, errNotEntered)
	}
	w, h := b.screen.Size()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: reported %dx%d", terminal.ErrSizeUnavailable, w, h)
	}
	return w, h, nil
}

func (b *Backend) check(op string) error {
	if !b.entered {
		return terminal.WrapIO(op, errNotEntered)
	}
	return nil
}

// MoveCursorTo implements terminal.Backend
func (b *Backend) MoveCursorTo(x, y int) error {
	if err := b.check("move cursor"); err != nil {
		return err
	}
	b.x, b.y = x, y
	return nil
}

// SetStyle implements terminal.Backend
func (b *Backend) SetStyle(s terminal.Style) error {
	if err := b.check("set style"); err != nil {
		return err
	}
	b.style = convertStyle(s, b.opts.ColorDepth)
	return nil
}

// WriteText implements terminal.Backend
// Each grapheme cluster becomes one cell; the base rune and its combining runes go to SetContent
func (b *Backend) WriteText(s string) error {
	if err := b.check("write text"); err != nil {
		return err
	}
	width, _ := b.screen.Size()

	state := -1
	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if w <= 0 {
			continue
		}
		if w > 2 {
			w = 2
		}
		if b.x+w > width {
			break
		}
		runes := []rune(cluster)
		b.screen.SetContent(b.x, b.y, runes[0], runes[1:], b.style)
		b.x += w
	}
	return nil
}

// HideCursor implements terminal.Backend
func (b *Backend) HideCursor() error {
	if err := b.check("hide cursor"); err != nil {
		return err
	}
	b.screen.HideCursor()
	return nil
}

// ShowCursor implements terminal.Backend, at the last MoveCursorTo position
func (b *Backend) ShowCursor() error {
	if err := b.check("show cursor"); err != nil {
		return err
	}
	b.screen.ShowCursor(b.x, b.y)
	return nil
}

// Clear implements terminal.Backend
func (b *Backend) Clear() error {
	if err := b.check("clear"); err != nil {
		return err
	}
	b.screen.Clear()
	return nil
}

// Flush implements terminal.Backend
func (b *Backend) Flush() error {
	if err := b.check("flush"); err != nil {
		return err
	}
	b.screen.Show()
	return nil
}

// PollEvent implements terminal.Backend
func (b *Backend) PollEvent(timeout time.Duration) (terminal.NativeEvent, error) {
	if !b.entered {
		return nil, terminal.WrapIO("poll", errNotEntered)
	}

	switch {
	case timeout == 0:
		select {
		case ev := <-b.events:
			return ev, nil
		default:
			return nil, nil
		}
	case timeout < 0:
		select {
		case ev := <-b.events:
			return ev, nil
		case <-b.done:
			return nil, terminal.WrapIO("poll", errors.New("event source closed"))
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev := <-b.events:
		return ev, nil
	case <-timer.C:
		return nil, nil
	case <-b.done:
		return nil, terminal.WrapIO("poll", errors.New("event source closed"))
	}
}

// Translate implements terminal.Backend
func (b *Backend) Translate(ev terminal.NativeEvent) (terminal.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return translateKey(e)
	case *tcell.EventMouse:
		return b.translateMouse(e)
	case *tcell.EventResize:
		w, h := e.Size()
		if w <= 0 || h <= 0 {
			return terminal.Event{}, false
		}
		return terminal.ResizeEvent(w, h), true
	}
	return terminal.Event{}, false
}
