package terminal

import "fmt"

// EventType distinguishes canonical event categories
type EventType uint8

const (
	EventNone EventType = iota // Poll timed out, nothing to report
	EventKey
	EventMouse
	EventResize
)

// Event is a canonical input event, independent of the backend that produced it
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier

	// Mouse event fields, 0-indexed cell coordinates
	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction

	Width  int // For EventResize
	Height int // For EventResize
}

// KeyEvent builds a key press event
func KeyEvent(key Key, r rune, mods Modifier) Event {
	return Event{Type: EventKey, Key: key, Rune: r, Modifiers: mods}
}

// RuneEvent builds a printable character event
func RuneEvent(r rune, mods Modifier) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r, Modifiers: mods}
}

// MouseEvent builds a mouse event at cell (x, y)
func MouseEvent(btn MouseButton, action MouseAction, x, y int, mods Modifier) Event {
	return Event{Type: EventMouse, MouseBtn: btn, MouseAction: action, MouseX: x, MouseY: y, Modifiers: mods}
}

// ResizeEvent builds a resize event
func ResizeEvent(width, height int) Event {
	return Event{Type: EventResize, Width: width, Height: height}
}

// String returns a compact description for logs
func (e Event) String() string {
	switch e.Type {
	case EventKey:
		if e.Key == KeyRune {
			return fmt.Sprintf("key(%q,%s)", e.Rune, e.Modifiers)
		}
		return fmt.Sprintf("key(%s,%s)", e.Key, e.Modifiers)
	case EventMouse:
		return fmt.Sprintf("mouse(%s,%s,%d,%d,%s)", e.MouseBtn, e.MouseAction, e.MouseX, e.MouseY, e.Modifiers)
	case EventResize:
		return fmt.Sprintf("resize(%dx%d)", e.Width, e.Height)
	}
	return "none"
}
