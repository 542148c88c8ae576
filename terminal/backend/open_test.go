package backend

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cellterm/config"
	"github.com/lixenwraith/cellterm/terminal"
)

func TestCompiledBackend(t *testing.T) {
	b, err := New(config.Default(), nil)
	require.NoError(t, err)
	assert.Equal(t, Kind, b.Name())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Output.ColorMode = "sepia"
	_, err := New(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.color_mode")

	_, err = Open(cfg, nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, terminal.ErrTerminalUnavailable, "config is checked before the terminal")
}

func TestOpen(t *testing.T) {
	cfg := config.Default()
	cfg.Session.RestoreOnSignal = false

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	vt := terminal.NewVirtualTerminal(20, 5)
	s, err := open(vt, cfg, log)
	require.NoError(t, err)
	assert.Equal(t, terminal.StateActive, s.State())
	assert.True(t, vt.Entered())
	_, _, visible := vt.Cursor()
	assert.False(t, visible, "hide_cursor applies")
	assert.Contains(t, buf.String(), "backend=virtual")

	require.NoError(t, s.Close())
	assert.False(t, vt.Entered())
}

func TestOpenVisibleCursor(t *testing.T) {
	cfg := config.Default()
	cfg.Session.RestoreOnSignal = false
	cfg.Session.HideCursor = false

	vt := terminal.NewVirtualTerminal(20, 5)
	s, err := open(vt, cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	_, _, visible := vt.Cursor()
	assert.True(t, visible)
}

func TestOpenFailures(t *testing.T) {
	cfg := config.Default()
	cfg.Session.RestoreOnSignal = false

	t.Run("no terminal", func(t *testing.T) {
		vt := terminal.NewVirtualTerminal(20, 5)
		vt.NoTTY = true
		_, err := open(vt, cfg, nil)
		assert.ErrorIs(t, err, terminal.ErrTerminalUnavailable)
	})

	t.Run("setup write fails", func(t *testing.T) {
		vt := terminal.NewVirtualTerminal(20, 5)
		vt.WriteErr = errors.New("broken pipe")
		_, err := open(vt, cfg, nil)
		assert.ErrorIs(t, err, terminal.ErrTerminalUnavailable)
		assert.ErrorIs(t, err, terminal.ErrIO)
		assert.False(t, vt.Entered(), "released after failure")
	})
}

func TestSessionOptions(t *testing.T) {
	cfg := config.Default()
	assert.Len(t, SessionOptions(cfg, nil), 3)
	cfg.Session.RestoreOnSignal = false
	assert.Len(t, SessionOptions(cfg, nil), 2)
}
