package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Schedule.DayStart != "06:00" || cfg.Schedule.DayEnd != "22:00" {
		t.Errorf("day bounds = %s-%s", cfg.Schedule.DayStart, cfg.Schedule.DayEnd)
	}
	if cfg.Schedule.SnapMinutes != 15 {
		t.Errorf("snap = %d, want 15", cfg.Schedule.SnapMinutes)
	}
	if cfg.UI.UndoDepth != 20 {
		t.Errorf("undo depth = %d, want 20", cfg.UI.UndoDepth)
	}
	if !cfg.UI.MouseEnabled {
		t.Error("mouse should be enabled by default")
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.UI.Theme != "mocha" {
		t.Errorf("theme = %q, want default", cfg.UI.Theme)
	}
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[schedule]
day_start = "08:00"
snap_minutes = 30

[ui]
theme = "latte"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("day_start = %q, want 08:00", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.SnapMinutes != 30 {
		t.Errorf("snap = %d, want 30", cfg.Schedule.SnapMinutes)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("theme = %q, want latte", cfg.UI.Theme)
	}
	// Untouched fields keep their defaults.
	if cfg.Schedule.DayEnd != "22:00" {
		t.Errorf("day_end = %q, want 22:00", cfg.Schedule.DayEnd)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"latte\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TEMPO_UI_THEME", "frappe")
	t.Setenv("TEMPO_DAY_START", "07:00")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.Theme != "frappe" {
		t.Errorf("theme = %q, env must win over file", cfg.UI.Theme)
	}
	if cfg.Schedule.DayStart != "07:00" {
		t.Errorf("day_start = %q, want env value", cfg.Schedule.DayStart)
	}
}

func TestLoadFromInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[schedule]\nday_start = \"25:00\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("invalid day_start must fail validation")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"inverted day", func(c *Config) { c.Schedule.DayStart = "23:00" }, "day_start"},
		{"zero snap", func(c *Config) { c.Schedule.SnapMinutes = 0 }, "snap_minutes"},
		{"max below min", func(c *Config) { c.Schedule.MaxMinutes = 5 }, "max_minutes"},
		{"rows not dividing 60", func(c *Config) { c.UI.RowsPerHour = 7 }, "rows_per_hour"},
		{"zero undo depth", func(c *Config) { c.UI.UndoDepth = 0 }, "undo_depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %s", err, tt.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.toml")

	cfg := Default()
	cfg.UI.Theme = "macchiato"
	cfg.Schedule.SnapMinutes = 5
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.UI.Theme != "macchiato" || loaded.Schedule.SnapMinutes != 5 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
