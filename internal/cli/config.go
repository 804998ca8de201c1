package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the optional memento configuration file.
//
//	[journal]
//	path = "memento.db"
//
//	[log]
//	level = "info"
//
//	[engine]
//	max_undo = 100
type Config struct {
	Journal JournalConfig `toml:"journal"`
	Log     LogConfig     `toml:"log"`
	Engine  EngineConfig  `toml:"engine"`
}

// JournalConfig configures the change journal.
type JournalConfig struct {
	Path string `toml:"path"` // SQLite path; empty disables journaling for run
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level string `toml:"level"` // debug | info | warn | error
}

// EngineConfig configures the Mementor used by run.
type EngineConfig struct {
	MaxUndo int `toml:"max_undo"` // applies to scenarios without max_undo; 0 is unbounded
}

// NewDefaultConfig returns the configuration used when no file is given.
func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "warn"},
	}
}

// LoadConfig reads a TOML config file over the defaults. An empty path
// returns the defaults. Unknown keys are rejected so typos don't go unnoticed.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config file %q: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Engine.MaxUndo < 0 {
		return fmt.Errorf("engine.max_undo must be non-negative, got %d", c.Engine.MaxUndo)
	}
	return nil
}

// parseLevel maps a config level name to a slog level. Empty means warn.
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level %q: must be one of debug, info, warn, error", level)
}
