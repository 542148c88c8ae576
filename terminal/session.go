package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// State is the lifecycle state of a Session
type State uint8

const (
	StateUninitialized State = iota
	StateActive
	StateClosed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Session owns one backend and the last drawn frame
//
// Draw diffs each frame against the previous one and sends only the changes.
// Close restores the terminal unconditionally; pair Enter with defer Close,
// and with defer RecoverAndClose where a panic could escape.
// Only one Session may be active per process; this is not checked.
type Session struct {
	backend Backend
	log     *slog.Logger

	mu    sync.Mutex
	state State
	prev  *Buffer

	hideCursor    bool
	cursorVisible bool
	cursorX       int
	cursorY       int

	restoreOnSignal bool
	onSignal        func(os.Signal)
	sigCh           chan os.Signal
	sigStop         chan struct{}
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithLogger sets the session logger
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHiddenCursor controls whether the cursor is hidden on Enter (default true)
func WithHiddenCursor(hide bool) SessionOption {
	return func(s *Session) {
		s.hideCursor = hide
	}
}

// WithSignalRestore closes the session on SIGINT, SIGTERM or SIGHUP, then calls exit
// A nil exit terminates the process with status 128+signal
func WithSignalRestore(exit func(os.Signal)) SessionOption {
	return func(s *Session) {
		s.restoreOnSignal = true
		if exit != nil {
			s.onSignal = exit
		}
	}
}

// NewSession wraps a backend; the terminal is untouched until Enter
func NewSession(b Backend, opts ...SessionOption) *Session {
	s := &Session{
		backend:    b,
		log:        slog.New(slog.DiscardHandler),
		hideCursor: true,
		onSignal:   exitOnSignal,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("backend", b.Name())
	return s
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Backend returns the wrapped backend
func (s *Session) Backend() Backend {
	return s.backend
}

// Enter acquires the terminal; a Session can be entered once
// On failure the backend is released again and the session is closed
func (s *Session) Enter() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUninitialized {
		return wrapState("enter", s.state)
	}

	if err := s.backend.Enter(); err != nil {
		if lerr := s.backend.Leave(); lerr != nil {
			s.log.Error("release after failed enter", "error", lerr)
		}
		s.state = StateClosed
		return err
	}

	if s.hideCursor {
		if err := s.backend.HideCursor(); err != nil {
			s.abortLocked()
			return err
		}
		if err := s.backend.Flush(); err != nil {
			s.abortLocked()
			return err
		}
	} else {
		s.cursorVisible = true
	}

	if s.restoreOnSignal {
		s.startSignalWatch()
	}

	s.state = StateActive
	s.log.Debug("session entered")
	return nil
}

// abortLocked releases the backend after a partial Enter
func (s *Session) abortLocked() {
	if err := s.backend.Leave(); err != nil {
		s.log.Error("release after failed enter", "error", err)
	}
	s.state = StateClosed
}

// Size returns the terminal dimensions
func (s *Session) Size() (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return 0, 0, fmt.Errorf("%w: session %s", ErrSizeUnavailable, s.state)
	}
	return s.backend.Size()
}

// Draw renders buf, sending only the cells that differ from the previous frame
// The buffer is only read; the session keeps its own copy
func (s *Session) Draw(buf *Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return wrapState("draw", s.state)
	}
	if buf == nil {
		return nil
	}

	w, h, err := s.backend.Size()
	if err != nil {
		return err
	}

	frame := buf
	mismatch := w != buf.Width() || h != buf.Height()
	if mismatch {
		s.log.Debug("forcing full repaint",
			"error", fmt.Errorf("%w: buffer %dx%d, terminal %dx%d", ErrDimensionMismatch, buf.Width(), buf.Height(), w, h))
		frame = clipBuffer(buf, w, h)
		s.prev = nil
	}

	if err := s.render(frame); err != nil {
		// Screen contents are unknown after a partial write
		s.prev = nil
		return err
	}

	if mismatch {
		s.prev = nil
		return nil
	}
	s.prev = copyInto(s.prev, frame)
	return nil
}

// render clears on full repaint, applies the patch and restores the cursor
func (s *Session) render(frame *Buffer) error {
	if s.prev == nil {
		if err := s.backend.Clear(); err != nil {
			return err
		}
	}

	patch := Diff(s.prev, frame)
	if len(patch) == 0 && s.prev != nil {
		return nil
	}

	if s.cursorVisible {
		if err := s.backend.HideCursor(); err != nil {
			return err
		}
	}
	if err := patch.Apply(s.backend); err != nil {
		return err
	}
	if s.cursorVisible {
		if err := s.backend.MoveCursorTo(s.cursorX, s.cursorY); err != nil {
			return err
		}
		if err := s.backend.ShowCursor(); err != nil {
			return err
		}
	}
	return s.backend.Flush()
}

// Sync drops the previous frame so the next Draw clears and repaints everything
func (s *Session) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prev = nil
}

// SetCursor shows the cursor at (x, y), kept there across draws
func (s *Session) SetCursor(x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return wrapState("set cursor", s.state)
	}
	s.cursorX, s.cursorY = x, y
	s.cursorVisible = true
	if err := s.backend.MoveCursorTo(x, y); err != nil {
		return err
	}
	if err := s.backend.ShowCursor(); err != nil {
		return err
	}
	return s.backend.Flush()
}

// HideCursor hides the cursor until the next SetCursor
func (s *Session) HideCursor() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return wrapState("hide cursor", s.state)
	}
	s.cursorVisible = false
	if err := s.backend.HideCursor(); err != nil {
		return err
	}
	return s.backend.Flush()
}

// pollSlice bounds how long PollEvent holds the session lock in one backend wait,
// so a signal-driven Close gets the backend between slices
const pollSlice = 50 * time.Millisecond

// PollEvent waits up to timeout for a canonical event
// Zero polls without blocking, Forever blocks; a timeout yields an EventNone event.
// Native events without a canonical mapping are dropped and polling continues until the deadline.
// A Close from another goroutine ends a blocked poll with ErrInvalidState.
func (s *Session) PollEvent(timeout time.Duration) (Event, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		wait := pollSlice
		switch {
		case timeout == 0:
			wait = 0
		case timeout > 0:
			wait = min(wait, max(0, time.Until(deadline)))
		}

		ev, ok, err := s.pollOnce(wait)
		if err != nil || ok {
			return ev, err
		}
		if timeout == 0 || (timeout > 0 && !time.Now().Before(deadline)) {
			return Event{}, nil
		}
	}
}

// pollOnce runs one bounded backend wait under the session lock
func (s *Session) pollOnce(wait time.Duration) (Event, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return Event{}, false, wrapState("poll", s.state)
	}
	native, err := s.backend.PollEvent(wait)
	if err != nil {
		return Event{}, false, err
	}
	if native == nil {
		return Event{}, false, nil
	}
	ev, ok := s.backend.Translate(native)
	if ok && ev.Type == EventResize {
		s.prev = nil
	}
	return ev, ok, nil
}

// Close restores the terminal; idempotent
// The session is closed even when restoration reports an error
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}

	s.stopSignalWatch()
	err := s.backend.Leave()
	s.state = StateClosed
	s.prev = nil

	if err != nil {
		s.log.Error("terminal restore failed", "error", err)
		return err
	}
	s.log.Debug("session closed")
	return nil
}

// RecoverAndClose restores the terminal when a panic unwinds, then re-panics
// Use directly with defer: defer s.RecoverAndClose()
func (s *Session) RecoverAndClose() {
	if r := recover(); r != nil {
		_ = s.Close()
		panic(r)
	}
}

// startSignalWatch closes the session when a termination signal arrives
func (s *Session) startSignalWatch() {
	s.sigCh = make(chan os.Signal, 1)
	s.sigStop = make(chan struct{})
	signal.Notify(s.sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	sigCh, stop := s.sigCh, s.sigStop
	go func() {
		select {
		case sig := <-sigCh:
			s.log.Warn("signal received, restoring terminal", "signal", sig.String())
			_ = s.Close()
			s.onSignal(sig)
		case <-stop:
		}
	}()
}

func (s *Session) stopSignalWatch() {
	if s.sigStop == nil {
		return
	}
	signal.Stop(s.sigCh)
	close(s.sigStop)
	s.sigStop = nil
}

func exitOnSignal(sig os.Signal) {
	code := 1
	if n, ok := sig.(syscall.Signal); ok {
		code = 128 + int(n)
	}
	os.Exit(code)
}

// clipBuffer copies the overlap of buf into a new buffer of the given size
func clipBuffer(buf *Buffer, width, height int) *Buffer {
	out := NewBuffer(width, height)
	cw := min(width, buf.Width())
	ch := min(height, buf.Height())
	for y := 0; y < ch; y++ {
		copy(out.Row(y)[:cw], buf.Row(y)[:cw])
		// A wide cell cut at the right edge loses its continuation
		if cw > 0 && cw < buf.Width() && out.Row(y)[cw-1].Width == 2 {
			out.cells[y*width+cw-1] = Cell{Content: " ", Width: 1, Style: out.Row(y)[cw-1].Style}
		}
	}
	return out
}

// copyInto copies src into dst, reusing dst when dimensions match
func copyInto(dst, src *Buffer) *Buffer {
	if !src.SameSize(dst) {
		return src.Clone()
	}
	copy(dst.cells, src.cells)
	return dst
}
