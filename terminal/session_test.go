package terminal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enteredSession(t *testing.T, w, h int) (*Session, *VirtualTerminal) {
	t.Helper()
	vt := NewVirtualTerminal(w, h)
	s := NewSession(vt)
	require.NoError(t, s.Enter())
	vt.ResetLog()
	return s, vt
}

func TestSessionLifecycle(t *testing.T) {
	vt := NewVirtualTerminal(4, 2)
	s := NewSession(vt)
	assert.Equal(t, StateUninitialized, s.State())

	assert.ErrorIs(t, s.Draw(NewBuffer(4, 2)), ErrInvalidState)
	_, _, err := s.Size()
	assert.ErrorIs(t, err, ErrSizeUnavailable)

	require.NoError(t, s.Enter())
	assert.Equal(t, StateActive, s.State())
	assert.True(t, vt.Entered())
	assert.ErrorIs(t, s.Enter(), ErrInvalidState)

	w, h, err := s.Size()
	require.NoError(t, err)
	assert.Equal(t, [2]int{4, 2}, [2]int{w, h})

	_, _, visible := vt.Cursor()
	assert.False(t, visible, "cursor hidden on enter")

	require.NoError(t, s.Close())
	assert.Equal(t, StateClosed, s.State())
	assert.False(t, vt.Entered())

	writes := vt.Writes
	require.NoError(t, s.Close())
	assert.Equal(t, writes, vt.Writes, "second close writes nothing")

	assert.ErrorIs(t, s.Enter(), ErrInvalidState)
	assert.ErrorIs(t, s.Draw(NewBuffer(4, 2)), ErrInvalidState)
	_, err = s.PollEvent(0)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, _, err = s.Size()
	assert.ErrorIs(t, err, ErrSizeUnavailable)
}

func TestSessionEnterWithoutTerminal(t *testing.T) {
	vt := NewVirtualTerminal(4, 2)
	vt.NoTTY = true
	s := NewSession(vt)

	err := s.Enter()
	assert.ErrorIs(t, err, ErrTerminalUnavailable)
	assert.Equal(t, StateClosed, s.State())
	assert.NoError(t, s.Close())
}

func TestBackendLeaveIsIdempotent(t *testing.T) {
	vt := NewVirtualTerminal(2, 2)
	require.NoError(t, vt.Enter())
	require.NoError(t, vt.Leave())
	writes := vt.Writes
	require.NoError(t, vt.Leave())
	require.NoError(t, vt.Leave())
	assert.Equal(t, writes, vt.Writes)
}

func TestSessionDrawSendsOnlyChanges(t *testing.T) {
	s, vt := enteredSession(t, 10, 1)

	require.NoError(t, s.Draw(NewBuffer(10, 1)))
	assert.True(t, vt.Screen().Equal(NewBuffer(10, 1)))
	assert.Equal(t, 1, vt.Flushes)

	vt.ResetLog()
	next := NewBuffer(10, 1)
	boldRed := StyleDefault.Foreground(ColorRed).With(AttrBold)
	next.SetString(3, 0, "test", boldRed)
	require.NoError(t, s.Draw(next))

	assert.Equal(t, []Op{MoveTo(3, 0), SetStyle(boldRed), WriteText("test")}, vt.Ops)
	assert.True(t, vt.Screen().Equal(next))

	vt.ResetLog()
	require.NoError(t, s.Draw(next.Clone()))
	assert.Empty(t, vt.Ops)
	assert.Zero(t, vt.Flushes, "identical frame is not flushed")
}

func TestSessionKeepsOwnCopyOfFrame(t *testing.T) {
	s, vt := enteredSession(t, 3, 1)
	buf := NewBuffer(3, 1)
	buf.SetString(0, 0, "abc", StyleDefault)
	require.NoError(t, s.Draw(buf))

	// Mutating the caller's buffer after Draw must not hide the change
	_ = buf.SetContent(1, 0, "X", StyleDefault)
	vt.ResetLog()
	require.NoError(t, s.Draw(buf))
	assert.Equal(t, []Op{MoveTo(1, 0), SetStyle(StyleDefault), WriteText("X")}, vt.Ops)
}

func TestSessionDimensionMismatch(t *testing.T) {
	s, vt := enteredSession(t, 4, 2)

	big := NewBuffer(6, 3)
	big.SetString(0, 0, "abcdef", StyleDefault)
	big.SetString(0, 2, "zz", StyleDefault)
	require.NoError(t, s.Draw(big))

	want := NewBuffer(4, 2)
	want.SetString(0, 0, "abcd", StyleDefault)
	assert.True(t, vt.Screen().Equal(want), "clipped to terminal")

	// Mismatched frames are never used as a diff base
	vt.ResetLog()
	require.NoError(t, s.Draw(want))
	assert.Equal(t, 2, Patch(vt.Ops).CursorMoves(), "full repaint after mismatch")

	vt.ResetLog()
	require.NoError(t, s.Draw(want))
	assert.Empty(t, vt.Ops)
}

func TestSessionClipsWideCellAtEdge(t *testing.T) {
	s, vt := enteredSession(t, 3, 1)
	buf := NewBuffer(4, 1)
	buf.SetString(0, 0, "a世", StyleDefault)
	buf.SetString(1, 0, "b世", StyleDefault)
	require.NoError(t, s.Draw(buf))

	c, _ := vt.Screen().Get(2, 0)
	assert.Equal(t, BlankCell, c)
}

func TestSessionResizeInvalidatesFrame(t *testing.T) {
	s, vt := enteredSession(t, 4, 2)
	buf := NewBuffer(4, 2)
	buf.SetString(0, 0, "ab", StyleDefault)
	require.NoError(t, s.Draw(buf))

	vt.Resize(5, 2)
	ev, err := s.PollEvent(0)
	require.NoError(t, err)
	assert.Equal(t, ResizeEvent(5, 2), ev)

	next := NewBuffer(5, 2)
	next.SetString(0, 0, "ab", StyleDefault)
	vt.ResetLog()
	require.NoError(t, s.Draw(next))
	assert.Equal(t, 2, Patch(vt.Ops).CursorMoves())
	assert.True(t, vt.Screen().Equal(next))
}

func TestSessionSyncForcesRepaint(t *testing.T) {
	s, vt := enteredSession(t, 2, 1)
	buf := NewBuffer(2, 1)
	require.NoError(t, s.Draw(buf))

	s.Sync()
	vt.ResetLog()
	require.NoError(t, s.Draw(buf))
	assert.Equal(t, 1, Patch(vt.Ops).CursorMoves())
}

func TestSessionPollEvent(t *testing.T) {
	t.Run("timeout yields none", func(t *testing.T) {
		s, _ := enteredSession(t, 2, 2)
		ev, err := s.PollEvent(5 * time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, EventNone, ev.Type)
	})

	t.Run("canonical events pass through", func(t *testing.T) {
		s, vt := enteredSession(t, 2, 2)
		vt.Inject(RuneEvent('c', ModCtrl))
		vt.Inject(MouseEvent(MouseBtnLeft, MouseActionPress, 1, 1, ModShift))

		ev, err := s.PollEvent(Forever)
		require.NoError(t, err)
		assert.Equal(t, RuneEvent('c', ModCtrl), ev)

		ev, err = s.PollEvent(0)
		require.NoError(t, err)
		assert.Equal(t, MouseEvent(MouseBtnLeft, MouseActionPress, 1, 1, ModShift), ev)
	})

	t.Run("unmapped event dropped", func(t *testing.T) {
		s, vt := enteredSession(t, 2, 2)
		vt.Inject("focus-in")
		vt.Inject(KeyEvent(KeyEnter, 0, ModNone))

		ev, err := s.PollEvent(10 * time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, KeyEvent(KeyEnter, 0, ModNone), ev)
	})

	t.Run("non-blocking poll returns after drop", func(t *testing.T) {
		s, vt := enteredSession(t, 2, 2)
		vt.Inject("focus-in")
		ev, err := s.PollEvent(0)
		require.NoError(t, err)
		assert.Equal(t, EventNone, ev.Type)
	})
}

func TestSessionCloseEndsBlockedPoll(t *testing.T) {
	s, vt := enteredSession(t, 2, 2)

	type result struct {
		ev  Event
		err error
	}
	done := make(chan result, 1)
	go func() {
		ev, err := s.PollEvent(Forever)
		done <- result{ev, err}
	}()

	time.Sleep(2 * pollSlice)
	require.NoError(t, s.Close())

	select {
	case r := <-done:
		assert.ErrorIs(t, r.err, ErrInvalidState)
		assert.Equal(t, EventNone, r.ev.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("poll still blocked after Close")
	}
	assert.False(t, vt.Entered())
}

func TestSessionPollAfterClose(t *testing.T) {
	s, _ := enteredSession(t, 2, 2)
	require.NoError(t, s.Close())
	_, err := s.PollEvent(0)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSessionRestoreFailure(t *testing.T) {
	s, vt := enteredSession(t, 2, 2)
	vt.RestoreErr = errors.New("tcsetattr: bad file descriptor")

	err := s.Close()
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, StateClosed, s.State())
	assert.NoError(t, s.Close())
}

func TestSessionWriteFailureForcesRepaint(t *testing.T) {
	s, vt := enteredSession(t, 3, 1)
	buf := NewBuffer(3, 1)
	require.NoError(t, s.Draw(buf))

	next := buf.Clone()
	next.SetString(0, 0, "x", StyleDefault)
	vt.WriteErr = errors.New("broken pipe")
	assert.ErrorIs(t, s.Draw(next), ErrIO)

	vt.WriteErr = nil
	vt.ResetLog()
	require.NoError(t, s.Draw(next))
	assert.Equal(t, 1, Patch(vt.Ops).CursorMoves())
	assert.True(t, vt.Screen().Equal(next))
}

func TestSessionRecoverAndClose(t *testing.T) {
	s, vt := enteredSession(t, 2, 2)

	assert.PanicsWithValue(t, "boom", func() {
		defer s.RecoverAndClose()
		panic("boom")
	})
	assert.Equal(t, StateClosed, s.State())
	assert.False(t, vt.Entered())
}

func TestSessionCursor(t *testing.T) {
	s, vt := enteredSession(t, 5, 2)
	require.NoError(t, s.SetCursor(3, 1))

	x, y, visible := vt.Cursor()
	assert.Equal(t, [2]int{3, 1}, [2]int{x, y})
	assert.True(t, visible)

	// Drawing restores the cursor position afterwards
	buf := NewBuffer(5, 2)
	buf.SetString(0, 0, "hello", StyleDefault)
	require.NoError(t, s.Draw(buf))
	x, y, visible = vt.Cursor()
	assert.Equal(t, [2]int{3, 1}, [2]int{x, y})
	assert.True(t, visible)

	require.NoError(t, s.HideCursor())
	_, _, visible = vt.Cursor()
	assert.False(t, visible)
}
