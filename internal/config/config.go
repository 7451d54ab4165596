// Package config loads the YAML configuration of the timeline demo.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ayn2op/timeline/keybind"
	"github.com/ayn2op/timeline/scroller"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration file.
type Config struct {
	// Timeline holds the scroll engine constants, in terminal rows.
	Timeline     scroller.Tuning `yaml:"timeline"`
	StickyBottom bool            `yaml:"sticky_bottom"`
	Keys         Keys            `yaml:"keys"`
	History      History         `yaml:"history"`
	Log          Log             `yaml:"log"`
}

// Keys lists the keys bound to each action. An empty list disables the action.
type Keys struct {
	ScrollUp     []string `yaml:"scroll_up"`
	ScrollDown   []string `yaml:"scroll_down"`
	JumpToFirst  []string `yaml:"jump_to_first"`
	JumpToLatest []string `yaml:"jump_to_latest"`
	ToggleHelp   []string `yaml:"toggle_help"`
	Quit         []string `yaml:"quit"`
}

type History struct {
	// Path of the SQLite database, or ":memory:".
	Path string `yaml:"path"`
	// Seed is the number of generated messages written to an empty history.
	Seed int `yaml:"seed"`
	// PageSize is the number of messages loaded per fill.
	PageSize int `yaml:"page_size"`
	// LiveInterval is the delay between simulated incoming messages. Zero
	// disables them.
	LiveInterval time.Duration `yaml:"live_interval"`
}

type Log struct {
	// File receives the log. The terminal is owned by the UI, so nothing is
	// logged without one.
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the configuration used for missing settings. The engine
// constants are scaled down from pixels to terminal rows.
func Default() Config {
	tuning := scroller.DefaultTuning()
	tuning.PageSize = 20
	tuning.UnpaginationPadding = 300
	tuning.ShrinkClearThreshold = 10

	return Config{
		Timeline:     tuning,
		StickyBottom: true,
		Keys: Keys{
			ScrollUp:     []string{"pgup"},
			ScrollDown:   []string{"pgdn"},
			JumpToFirst:  []string{"ctrl+home"},
			JumpToLatest: []string{"ctrl+end"},
			ToggleHelp:   []string{"?"},
			Quit:         []string{"ctrl+c", "q"},
		},
		History: History{
			Path:         ":memory:",
			Seed:         500,
			PageSize:     30,
			LiveInterval: 3 * time.Second,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads the configuration at path over the defaults. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if err := c.Timeline.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("timeline: %w", err))
	}
	for name, keys := range map[string][]string{
		"scroll_up":      c.Keys.ScrollUp,
		"scroll_down":    c.Keys.ScrollDown,
		"jump_to_first":  c.Keys.JumpToFirst,
		"jump_to_latest": c.Keys.JumpToLatest,
		"toggle_help":    c.Keys.ToggleHelp,
		"quit":           c.Keys.Quit,
	} {
		if _, err := keybind.ParseKeys(keys...); err != nil {
			errs = append(errs, fmt.Errorf("keys.%s: %w", name, err))
		}
	}
	if c.History.Path == "" {
		errs = append(errs, errors.New("history.path must be set"))
	}
	if c.History.Seed < 0 {
		errs = append(errs, fmt.Errorf("history.seed must not be negative, got %d", c.History.Seed))
	}
	if c.History.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("history.page_size must be positive, got %d", c.History.PageSize))
	}
	if c.History.LiveInterval < 0 {
		errs = append(errs, fmt.Errorf("history.live_interval must not be negative, got %s", c.History.LiveInterval))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses the log level.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// ScrollKeys returns the scroll engine key bindings. The help label shows the
// first configured key.
func (k Keys) ScrollKeys() scroller.Keys {
	keys := scroller.DefaultKeys()
	rebind(&keys.ScrollUp, k.ScrollUp)
	rebind(&keys.ScrollDown, k.ScrollDown)
	rebind(&keys.JumpToFirst, k.JumpToFirst)
	rebind(&keys.JumpToLatest, k.JumpToLatest)
	return keys
}

// Keybind returns a binding for keys with the given help description.
func Keybind(keys []string, desc string) keybind.Keybind {
	kb := keybind.NewKeybind(keybind.WithHelp("", desc))
	rebind(&kb, keys)
	return kb
}

func rebind(kb *keybind.Keybind, keys []string) {
	kb.SetKeys(keys...)
	label := ""
	if len(keys) > 0 {
		label = keys[0]
	}
	kb.SetHelp(label, kb.Help().Desc)
}
