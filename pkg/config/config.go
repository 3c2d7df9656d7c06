// Package config handles loading and saving manyways configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/manyways/config.yaml
//   - State:   ~/.local/state/manyways/ (debug log)
//
// Nothing about a reflection session is ever written here; the file only
// holds presentation and catalog preferences.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme names accepted by ui.theme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme      string `yaml:"theme,omitempty"`      // auto, dark, light
	Accessible *bool  `yaml:"accessible,omitempty"` // nil = detect from TTY
	ShowFooter bool   `yaml:"show_footer"`          // Credit line on the last step
	Mouse      bool   `yaml:"mouse,omitempty"`      // Enable mouse wheel scrolling
}

// CatalogConfig points at an optional user catalog.
type CatalogConfig struct {
	Path  string `yaml:"path,omitempty"`
	Watch bool   `yaml:"watch"` // Live-reload Path while running
}

// LogConfig controls the debug log.
type LogConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Level   string `yaml:"level,omitempty"` // debug, info, warn, error
	File    string `yaml:"file,omitempty"`  // empty = debug.log under StateDir
}

// Config is the top-level configuration for manyways.
type Config struct {
	UI      UIConfig      `yaml:"ui"`
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			Theme:      ThemeAuto,
			ShowFooter: true,
		},
		Catalog: CatalogConfig{
			Watch: true,
		},
		Log: LogConfig{
			Level: "debug",
		},
	}
}

// ConfigDir returns the XDG config directory for manyways.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "manyways")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "manyways")
}

// StateDir returns the XDG state directory for manyways.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "manyways")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "manyways")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	cfg.Catalog.Path = expandHome(cfg.Catalog.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))
	switch c.UI.Theme {
	case "":
		c.UI.Theme = ThemeAuto
	case ThemeAuto, ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("invalid ui.theme %q (expected auto|dark|light)", c.UI.Theme)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (expected debug|info|warn|error)", c.Log.Level)
	}
	return nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ApplyEnv overlays MANYWAYS_* environment variables onto cfg.
// Flags are applied by the caller afterwards and win over both.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup("MANYWAYS_ACCESSIBLE"); ok && strings.TrimSpace(v) != "" {
		on := parseBool(v)
		c.UI.Accessible = &on
	}
	if v, ok := lookup("MANYWAYS_CATALOG"); ok && strings.TrimSpace(v) != "" {
		c.Catalog.Path = expandHome(strings.TrimSpace(v))
	}
	if v, ok := lookup("MANYWAYS_THEME"); ok && strings.TrimSpace(v) != "" {
		c.UI.Theme = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup("MANYWAYS_DEBUG"); ok && strings.TrimSpace(v) != "" {
		c.Log.Enabled = parseBool(v)
	}
	if v, ok := lookup("MANYWAYS_DEBUG_FILE"); ok && strings.TrimSpace(v) != "" {
		c.Log.File = expandHome(strings.TrimSpace(v))
	}
	if v, ok := lookup("MANYWAYS_LOG_LEVEL"); ok && strings.TrimSpace(v) != "" {
		c.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
