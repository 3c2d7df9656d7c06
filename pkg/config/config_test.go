package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.Theme != ThemeAuto {
		t.Errorf("expected default theme 'auto', got %q", cfg.UI.Theme)
	}
	if !cfg.UI.ShowFooter {
		t.Error("expected footer to be shown by default")
	}
	if cfg.UI.Accessible != nil {
		t.Error("expected accessible mode to be auto-detected by default")
	}
	if !cfg.Catalog.Watch {
		t.Error("expected catalog watch to default on")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.Theme != ThemeAuto {
		t.Errorf("expected default config, got theme %q", cfg.UI.Theme)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
ui:
  theme: Light
  accessible: true
  show_footer: false
  mouse: true

catalog:
  path: ~/reflections/catalog.yaml
  watch: false

log:
  level: info
  file: /tmp/manyways.log
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.UI.Theme != ThemeLight {
		t.Errorf("expected theme normalized to 'light', got %q", cfg.UI.Theme)
	}
	if cfg.UI.Accessible == nil || !*cfg.UI.Accessible {
		t.Error("expected accessible=true")
	}
	if cfg.UI.ShowFooter {
		t.Error("expected show_footer=false")
	}
	if !cfg.UI.Mouse {
		t.Error("expected mouse=true")
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, "reflections/catalog.yaml")
	if cfg.Catalog.Path != expected {
		t.Errorf("expected expanded path %q, got %q", expected, cfg.Catalog.Path)
	}
	if cfg.Catalog.Watch {
		t.Error("expected watch=false")
	}
	if cfg.Log.Level != "info" || cfg.Log.File != "/tmp/manyways.log" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadFrom_PartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("ui:\n  theme: dark\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.Theme != ThemeDark {
		t.Errorf("expected dark theme, got %q", cfg.UI.Theme)
	}
	if !cfg.UI.ShowFooter || !cfg.Catalog.Watch {
		t.Errorf("expected unspecified fields to keep defaults, got %+v", cfg)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	dir := t.TempDir()

	for name, content := range map[string]string{
		"theme": "ui:\n  theme: neon\n",
		"level": "log:\n  level: loud\n",
	} {
		path := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFrom(path); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.UI.Theme = ThemeDark
	cfg.Catalog.Path = "/data/catalog.yaml"
	on := true
	cfg.UI.Accessible = &on

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.UI.Theme != ThemeDark || loaded.Catalog.Path != "/data/catalog.yaml" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.UI.Accessible == nil || !*loaded.UI.Accessible {
		t.Error("round trip lost accessible flag")
	}
}

func TestXDGDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	if got := ConfigDir(); got != filepath.Join("/xdg/config", "manyways") {
		t.Errorf("ConfigDir = %q", got)
	}
	if got := ConfigPath(); got != filepath.Join("/xdg/config", "manyways", "config.yaml") {
		t.Errorf("ConfigPath = %q", got)
	}
	if got := StateDir(); got != filepath.Join("/xdg/state", "manyways") {
		t.Errorf("StateDir = %q", got)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MANYWAYS_ACCESSIBLE": "yes",
		"MANYWAYS_CATALOG":    " /srv/catalog.yaml ",
		"MANYWAYS_THEME":      "LIGHT",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	cfg.ApplyEnv(lookup)

	if cfg.UI.Accessible == nil || !*cfg.UI.Accessible {
		t.Error("expected accessible from env")
	}
	if cfg.Catalog.Path != "/srv/catalog.yaml" {
		t.Errorf("expected catalog path from env, got %q", cfg.Catalog.Path)
	}
	if cfg.UI.Theme != ThemeLight {
		t.Errorf("expected theme from env, got %q", cfg.UI.Theme)
	}

	cfg = DefaultConfig()
	cfg.ApplyEnv(func(string) (string, bool) { return "", false })
	if cfg.UI.Accessible != nil || cfg.Catalog.Path != "" || cfg.Log.Enabled {
		t.Errorf("expected untouched config, got %+v", cfg)
	}
}

func TestApplyEnv_DebugKeepsFileSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "warn"
	cfg.Log.File = "/var/log/manyways.log"

	cfg.ApplyEnv(func(k string) (string, bool) {
		if k == "MANYWAYS_DEBUG" {
			return "1", true
		}
		return "", false
	})
	if !cfg.Log.Enabled {
		t.Fatal("expected MANYWAYS_DEBUG to enable logging")
	}
	if cfg.Log.Level != "warn" || cfg.Log.File != "/var/log/manyways.log" {
		t.Errorf("env toggle should keep configured level and file, got %+v", cfg.Log)
	}

	cfg.ApplyEnv(func(k string) (string, bool) {
		switch k {
		case "MANYWAYS_DEBUG_FILE":
			return "/tmp/env.log", true
		case "MANYWAYS_LOG_LEVEL":
			return "ERROR", true
		case "MANYWAYS_DEBUG":
			return "0", true
		}
		return "", false
	})
	if cfg.Log.Enabled {
		t.Error("MANYWAYS_DEBUG=0 should disable logging")
	}
	if cfg.Log.File != "/tmp/env.log" || cfg.Log.Level != "error" {
		t.Errorf("expected env to override file and level, got %+v", cfg.Log)
	}
}
