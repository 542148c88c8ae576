package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cellterm/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" Warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelInfo, false)

	l.Debug("hidden")
	l.Info("session entered", "backend", "ansi")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=\"session entered\"")
	assert.Contains(t, buf.String(), "backend=ansi")

	buf.Reset()
	l.SetLevel(slog.LevelDebug)
	assert.Equal(t, slog.LevelDebug, l.Level())
	l.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelDebug, true)
	l.Warn("restore failed", "step", "flush")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "restore failed", rec["msg"])
	assert.Equal(t, "flush", rec["step"])
}

func TestNew_NoFileDiscards(t *testing.T) {
	t.Setenv(EnvLevel, "")
	l, err := New(config.Log{Level: "debug"})
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l.Level())
	l.Info("goes nowhere")
	assert.NoError(t, l.Close())
}

func TestNew_File(t *testing.T) {
	t.Setenv(EnvLevel, "")
	path := filepath.Join(t.TempDir(), "cellterm.log")

	l, err := New(config.Log{Level: "info", File: path, Format: "json"})
	require.NoError(t, err)
	l.Info("first")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	// Reopening appends
	l, err = New(config.Log{File: path})
	require.NoError(t, err)
	l.Info("second")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"first"`)
	assert.Contains(t, string(data), "msg=second")
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv(EnvLevel, "error")
	l, err := New(config.Log{Level: "debug"})
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, l.Level())

	t.Setenv(EnvLevel, "loud")
	_, err = New(config.Log{})
	assert.Error(t, err)
}

func TestNew_Errors(t *testing.T) {
	t.Setenv(EnvLevel, "")
	_, err := New(config.Log{Level: "chatty"})
	assert.Error(t, err)

	_, err = New(config.Log{File: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}
