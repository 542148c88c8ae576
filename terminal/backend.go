package terminal

import "time"

// Forever makes PollEvent block until an event arrives
const Forever time.Duration = -1

// NativeEvent is a backend-specific input notification, opaque outside its backend
type NativeEvent any

// Backend abstracts a terminal-control mechanism
// Implementations are used from a single goroutine; none are safe for concurrent use
type Backend interface {
	// Name identifies the implementation in logs
	Name() string

	// Lifecycle
	// Enter enables raw input and, if configured, the alternate screen. Idempotent while entered.
	Enter() error
	// Leave restores the original input mode and screen. Safe to call repeatedly and after failures;
	// only the first call after Enter writes anything.
	Leave() error

	// Size returns current dimensions in cells; fails with ErrSizeUnavailable outside Enter/Leave
	Size() (width, height int, err error)

	// Rendering primitives; failures wrap ErrIO
	MoveCursorTo(x, y int) error
	SetStyle(s Style) error
	WriteText(s string) error
	HideCursor() error
	ShowCursor() error
	Clear() error
	Flush() error

	// PollEvent waits up to timeout for input. Zero polls without blocking, Forever blocks.
	// A timeout returns (nil, nil); errors are reserved for genuine I/O failure.
	PollEvent(timeout time.Duration) (NativeEvent, error)

	// Translate maps a native event to a canonical one; unmapped events report false
	Translate(ev NativeEvent) (Event, bool)
}
