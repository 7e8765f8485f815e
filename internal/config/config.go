package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/tasedit/internal/tas"
)

// DefaultFileName is the config file looked up in the working directory
// when no path is given.
const DefaultFileName = "tasfmt.toml"

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultScriptTimeout = 5 * time.Second
	DefaultDebounce      = 100 * time.Millisecond
)

// Duration is a time.Duration that decodes from strings like "150ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds all tasfmt settings.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Format  FormatConfig  `toml:"format"`
	Actions ActionsConfig `toml:"actions"`
	Script  ScriptConfig  `toml:"script"`
	Watch   WatchConfig   `toml:"watch"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// FormatConfig selects the transforms applied by the fmt command.
type FormatConfig struct {
	// Combine merges adjacent identical input lines.
	Combine bool `toml:"combine"`
	// Expand splits input lines into single frames. Ignored when Combine is set.
	Expand bool `toml:"expand"`
}

// ActionsConfig configures action ordering and toggling.
// A table given in a config file replaces the built-in one instead of
// merging into it.
type ActionsConfig struct {
	Order     []string            `toml:"order"`
	Exclusive map[string][]string `toml:"exclusive"`
	Valued    map[string]int      `toml:"valued"`
}

// ScriptConfig configures Lua transforms.
type ScriptConfig struct {
	Timeout Duration `toml:"timeout"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
	// Write rewrites a watched file when formatting changes it.
	Write bool `toml:"write"`
}

// Default returns the built-in configuration.
func Default() *Config {
	layout := tas.DefaultActionLayout()
	return &Config{
		Logging: LoggingConfig{Level: DefaultLogLevel},
		Actions: ActionsConfig{
			Order:     layout.Order,
			Exclusive: layout.Exclusive,
			Valued:    layout.Valued,
		},
		Script: ScriptConfig{Timeout: Duration(DefaultScriptTimeout)},
		Watch:  WatchConfig{Debounce: Duration(DefaultDebounce), Write: true},
	}
}

// Layout returns the action layout described by the configuration.
func (c *Config) Layout() tas.ActionLayout {
	return tas.ActionLayout{
		Order:     c.Actions.Order,
		Exclusive: c.Actions.Exclusive,
		Valued:    c.Actions.Valued,
	}
}

// Validate checks the configuration for invalid values.
// The log level is normalized to lower case.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Message: "must be debug, info, warn, or error", Value: c.Logging.Level}
	}

	if c.Script.Timeout < 0 {
		return &ValidationError{Path: "script.timeout", Message: "must not be negative", Value: time.Duration(c.Script.Timeout)}
	}
	if c.Watch.Debounce < 0 {
		return &ValidationError{Path: "watch.debounce", Message: "must not be negative", Value: time.Duration(c.Watch.Debounce)}
	}

	for _, key := range c.Actions.Order {
		if !tas.ValidKey(key) {
			return &ValidationError{Path: "actions.order", Message: "keys must be single letters", Value: key}
		}
	}
	for key, excluded := range c.Actions.Exclusive {
		if !tas.ValidKey(key) {
			return &ValidationError{Path: "actions.exclusive", Message: "keys must be single letters", Value: key}
		}
		for _, other := range excluded {
			if !tas.ValidKey(other) {
				return &ValidationError{Path: fmt.Sprintf("actions.exclusive.%s", key), Message: "keys must be single letters", Value: other}
			}
		}
	}
	for key, n := range c.Actions.Valued {
		if !tas.ValidKey(key) {
			return &ValidationError{Path: "actions.valued", Message: "keys must be single letters", Value: key}
		}
		if n < 1 {
			return &ValidationError{Path: fmt.Sprintf("actions.valued.%s", key), Message: "must be at least 1", Value: n}
		}
	}
	return nil
}
