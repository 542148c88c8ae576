// Package config loads session, output, input and logging settings from TOML
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/cellterm/terminal"
)

// EnvConfigPath overrides the config file location
const EnvConfigPath = "CELLTERM_CONFIG"

// Config is the full settings tree
type Config struct {
	Session Session `toml:"session"`
	Output  Output  `toml:"output"`
	Input   Input   `toml:"input"`
	Log     Log     `toml:"log"`
}

// Session controls terminal acquisition
type Session struct {
	AltScreen       bool `toml:"alt_screen"`
	MouseCapture    bool `toml:"mouse_capture"`
	HideCursor      bool `toml:"hide_cursor"`
	RestoreOnSignal bool `toml:"restore_on_signal"`
}

// Output controls rendering
type Output struct {
	// ColorMode is one of auto, truecolor, 256, 16, none
	ColorMode string `toml:"color_mode"`
}

// Input controls input decoding
type Input struct {
	// EscapeTimeout separates a standalone ESC from the start of an escape sequence
	EscapeTimeout time.Duration `toml:"escape_timeout"`
}

// Log controls the diagnostic log; the terminal itself is the UI, so logs go to a file
type Log struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"` // text or json
}

// Default returns the settings used when no file is present
func Default() Config {
	return Config{
		Session: Session{
			AltScreen:       true,
			HideCursor:      true,
			RestoreOnSignal: true,
		},
		Output: Output{ColorMode: "auto"},
		Input:  Input{EscapeTimeout: 50 * time.Millisecond},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// Decode overlays TOML data onto c; keys absent from data keep their current value
func (c *Config) Decode(data string) error {
	metadata, err := toml.Decode(data, c)
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	if _, err := c.ColorDepth(); err != nil {
		return fmt.Errorf("output.color_mode: %w", err)
	}
	if c.Input.EscapeTimeout < 0 {
		return fmt.Errorf("input.escape_timeout: must not be negative, got %s", c.Input.EscapeTimeout)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

// ColorDepth parses Output.ColorMode
func (c Config) ColorDepth() (terminal.ColorDepth, error) {
	return terminal.ParseColorDepth(c.Output.ColorMode)
}

// Load reads the file at path over the defaults and validates the result
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Decode(string(data)); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFile loads the file named by FilePath, falling back to the defaults when it does not exist
func LoadFile() (Config, error) {
	path := FilePath()
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// FilePath returns $CELLTERM_CONFIG, else cellterm/config.toml under the user config directory
// ($XDG_CONFIG_HOME on Linux); empty when neither can be determined
func FilePath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cellterm", "config.toml")
}
