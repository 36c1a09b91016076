// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// ScheduleConfig holds timeline bounds and snapping settings.
type ScheduleConfig struct {
	DayStart    string `toml:"day_start"`    // e.g., "06:00"
	DayEnd      string `toml:"day_end"`      // e.g., "22:00"
	SnapMinutes int    `toml:"snap_minutes"` // resize/drag snapping grid
	MinMinutes  int    `toml:"min_minutes"`  // smallest block duration
	MaxMinutes  int    `toml:"max_minutes"`  // largest block duration
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme        string `toml:"theme"`          // "mocha", "macchiato", "frappe", "latte"
	RowsPerHour  int    `toml:"rows_per_hour"`  // vertical timeline density
	UndoDepth    int    `toml:"undo_depth"`     // bounded undo stack size
	MouseEnabled bool   `toml:"mouse_enabled"`  // drag/resize with the pointer
	DragPixels   int    `toml:"drag_threshold"` // movement before a press becomes a drag
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			DayStart:    "06:00",
			DayEnd:      "22:00",
			SnapMinutes: 15,
			MinMinutes:  15,
			MaxMinutes:  16 * 60,
		},
		UI: UIConfig{
			Theme:        "mocha",
			RowsPerHour:  4,
			UndoDepth:    20,
			MouseEnabled: true,
			DragPixels:   1,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tempo.db"
	}
	return filepath.Join(home, ".local", "share", "tempo", "tempo.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "tempo", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TEMPO_DAY_START"); v != "" {
		cfg.Schedule.DayStart = v
	}
	if v := os.Getenv("TEMPO_DAY_END"); v != "" {
		cfg.Schedule.DayEnd = v
	}
	if v := os.Getenv("TEMPO_SNAP_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.SnapMinutes = n
		}
	}
	if v := os.Getenv("TEMPO_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TEMPO_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateTime(c.Schedule.DayStart, "day_start"); err != nil {
		return err
	}
	if err := validateTime(c.Schedule.DayEnd, "day_end"); err != nil {
		return err
	}
	if c.Schedule.DayStart >= c.Schedule.DayEnd {
		return errors.New("day_start must be before day_end")
	}
	if c.Schedule.SnapMinutes <= 0 || c.Schedule.SnapMinutes > 60 {
		return errors.New("snap_minutes must be between 1 and 60")
	}
	if c.Schedule.MinMinutes <= 0 {
		return errors.New("min_minutes must be positive")
	}
	if c.Schedule.MaxMinutes < c.Schedule.MinMinutes {
		return errors.New("max_minutes must be at least min_minutes")
	}
	if c.UI.RowsPerHour <= 0 || 60%c.UI.RowsPerHour != 0 {
		return errors.New("rows_per_hour must divide 60")
	}
	if c.UI.UndoDepth <= 0 {
		return errors.New("undo_depth must be positive")
	}
	return nil
}

func validateTime(s, field string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("%s must be in HH:MM format", field)
	}
	return nil
}

// Save writes the config to the given path, creating directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
