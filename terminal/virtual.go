package terminal

import (
	"fmt"
	"time"

	"github.com/rivo/uniseg"
)

// VirtualTerminal is an in-memory Backend that applies render operations to a cell grid
// Useful for headless rendering and for asserting what a real terminal would show.
// Auto-wrap is off: text past the right edge is dropped, as on the real backends.
// PollEvent never blocks; queued events are returned in order.
type VirtualTerminal struct {
	screen *Buffer

	entered bool

	cursorX       int
	cursorY       int
	cursorVisible bool
	style         Style

	// Ops records every rendering primitive since the last ResetLog
	Ops []Op
	// Writes counts every call that would emit terminal output, lifecycle included
	Writes int
	// Flushes counts Flush calls
	Flushes int

	// Failure injection
	NoTTY      bool  // Enter fails with ErrTerminalUnavailable
	WriteErr   error // returned (wrapped as ErrIO) by rendering primitives
	RestoreErr error // returned (wrapped as ErrIO) by the first Leave

	queue []NativeEvent
}

// NewVirtualTerminal creates a virtual terminal of the given size showing blank cells
func NewVirtualTerminal(width, height int) *VirtualTerminal {
	return &VirtualTerminal{
		screen:        NewBuffer(width, height),
		cursorVisible: true,
	}
}

// Name implements Backend
func (v *VirtualTerminal) Name() string {
	return "virtual"
}

// Enter implements Backend
func (v *VirtualTerminal) Enter() error {
	if v.NoTTY {
		return WrapUnavailable(fmt.Errorf("virtual terminal has no tty"))
	}
	if v.entered {
		return nil
	}
	v.entered = true
	v.Writes++
	return nil
}

// Leave implements Backend
func (v *VirtualTerminal) Leave() error {
	if !v.entered {
		return nil
	}
	v.entered = false
	v.cursorVisible = true
	v.Writes++
	if v.RestoreErr != nil {
		return WrapIO("restore", v.RestoreErr)
	}
	return nil
}

// Entered reports whether the virtual terminal is in raw mode
func (v *VirtualTerminal) Entered() bool {
	return v.entered
}

// Size implements Backend
func (v *VirtualTerminal) Size() (int, int, error) {
	if !v.entered {
		return 0, 0, fmt.Errorf("%w: not entered", ErrSizeUnavailable)
	}
	return v.screen.Width(), v.screen.Height(), nil
}

func (v *VirtualTerminal) output(op string) error {
	v.Writes++
	if v.WriteErr != nil {
		return WrapIO(op, v.WriteErr)
	}
	return nil
}

// MoveCursorTo implements Backend
func (v *VirtualTerminal) MoveCursorTo(x, y int) error {
	if err := v.output("move cursor"); err != nil {
		return err
	}
	v.Ops = append(v.Ops, MoveTo(x, y))
	v.cursorX = clamp(x, 0, v.screen.Width()-1)
	v.cursorY = clamp(y, 0, v.screen.Height()-1)
	return nil
}

// SetStyle implements Backend
func (v *VirtualTerminal) SetStyle(s Style) error {
	if err := v.output("set style"); err != nil {
		return err
	}
	v.Ops = append(v.Ops, SetStyle(s))
	v.style = s
	return nil
}

// WriteText implements Backend
func (v *VirtualTerminal) WriteText(s string) error {
	if err := v.output("write text"); err != nil {
		return err
	}
	v.Ops = append(v.Ops, WriteText(s))

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
		if v.cursorX+w > v.screen.Width() {
			// No auto-wrap: cursor sticks at the right edge
			break
		}
		_ = v.screen.Set(v.cursorX, v.cursorY, Cell{Content: cluster, Width: uint8(w), Style: v.style})
		v.cursorX += w
	}
	if v.cursorX >= v.screen.Width() {
		v.cursorX = v.screen.Width() - 1
	}
	return nil
}

// HideCursor implements Backend
func (v *VirtualTerminal) HideCursor() error {
	if err := v.output("hide cursor"); err != nil {
		return err
	}
	v.cursorVisible = false
	return nil
}

// ShowCursor implements Backend
func (v *VirtualTerminal) ShowCursor() error {
	if err := v.output("show cursor"); err != nil {
		return err
	}
	v.cursorVisible = true
	return nil
}

// Clear implements Backend
func (v *VirtualTerminal) Clear() error {
	if err := v.output("clear"); err != nil {
		return err
	}
	v.screen.Clear()
	v.style = StyleDefault
	return nil
}

// Flush implements Backend
func (v *VirtualTerminal) Flush() error {
	if err := v.output("flush"); err != nil {
		return err
	}
	v.Flushes++
	return nil
}

// PollEvent implements Backend; it returns the next queued event, or sleeps for a
// positive timeout and reports none. Forever returns at once since nothing can arrive.
func (v *VirtualTerminal) PollEvent(timeout time.Duration) (NativeEvent, error) {
	if len(v.queue) == 0 {
		if timeout > 0 {
			time.Sleep(timeout)
		}
		return nil, nil
	}
	ev := v.queue[0]
	v.queue = v.queue[1:]
	return ev, nil
}

// Translate implements Backend; canonical events pass through, anything else is dropped
func (v *VirtualTerminal) Translate(ev NativeEvent) (Event, bool) {
	e, ok := ev.(Event)
	if !ok || e.Type == EventNone {
		return Event{}, false
	}
	return e, true
}

// Inject queues an event for PollEvent
func (v *VirtualTerminal) Inject(ev NativeEvent) {
	v.queue = append(v.queue, ev)
}

// Resize changes the screen size, keeping overlapping content, and queues a resize event
func (v *VirtualTerminal) Resize(width, height int) {
	v.screen = clipBuffer(v.screen, width, height)
	v.cursorX = clamp(v.cursorX, 0, width-1)
	v.cursorY = clamp(v.cursorY, 0, height-1)
	v.Inject(ResizeEvent(width, height))
}

// Screen returns a copy of the displayed cells
func (v *VirtualTerminal) Screen() *Buffer {
	return v.screen.Clone()
}

// Cursor returns the cursor position and visibility
func (v *VirtualTerminal) Cursor() (x, y int, visible bool) {
	return v.cursorX, v.cursorY, v.cursorVisible
}

// ResetLog clears recorded operations and counters
func (v *VirtualTerminal) ResetLog() {
	v.Ops = nil
	v.Writes = 0
	v.Flushes = 0
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
