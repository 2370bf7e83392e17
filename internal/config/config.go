package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/steveyegge/contacts/internal/book"
	"github.com/steveyegge/contacts/internal/storage"
	"github.com/steveyegge/contacts/internal/types"
)

// Config is the contents of .contacts/config.yaml, after environment
// overrides.
type Config struct {
	Storage   StorageConfig  `yaml:"storage"`
	Reminders ReminderConfig `yaml:"reminders"`
	Log       LogConfig      `yaml:"log"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend: "sqlite" or "yaml"
	Backend string `yaml:"backend"`

	// Path overrides the store location; empty means discover it
	Path string `yaml:"path,omitempty"`
}

// ReminderConfig tunes the upcoming-birthdays query.
type ReminderConfig struct {
	// WindowDays is how many days ahead of today still count
	// Default: 7, Range: 0-365
	WindowDays int `yaml:"window_days"`

	// LeapDay places Feb 29 birthdays in non-leap years: "feb28" or "mar1"
	// Default: "feb28"
	LeapDay string `yaml:"leap_day"`
}

// LogConfig configures the diagnostic logger (not the shell output).
type LogConfig struct {
	// Level: debug, info, warn or error
	// Default: warn
	Level string `yaml:"level"`

	// File receives logs instead of stderr when set
	File string `yaml:"file,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: storage.BackendSQLite,
		},
		Reminders: ReminderConfig{
			WindowDays: book.DefaultWindowDays,
			LeapDay:    string(types.LeapDayFeb28),
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from environment variables:
//   - CONTACTS_BACKEND: storage backend
//   - CONTACTS_DB_PATH: store path
//   - CONTACTS_REMINDER_WINDOW_DAYS: reminder window in days
//   - CONTACTS_LEAP_DAY: feb28 or mar1
//   - CONTACTS_LOG_LEVEL: debug, info, warn or error
//   - CONTACTS_LOG_FILE: log file path
//
// Returns an error if any environment variable has an unparseable value.
func (c *Config) ApplyEnv() error {
	parseEnvString("CONTACTS_BACKEND", &c.Storage.Backend)
	parseEnvString(storage.PathEnv, &c.Storage.Path)
	if err := parseEnvInt("CONTACTS_REMINDER_WINDOW_DAYS", &c.Reminders.WindowDays); err != nil {
		return err
	}
	parseEnvString("CONTACTS_LEAP_DAY", &c.Reminders.LeapDay)
	parseEnvString("CONTACTS_LOG_LEVEL", &c.Log.Level)
	parseEnvString("CONTACTS_LOG_FILE", &c.Log.File)
	return nil
}

// Validate checks if the configuration has valid values
func (c *Config) Validate() error {
	if !storage.IsValidBackend(c.Storage.Backend) {
		return fmt.Errorf("storage.backend must be %s or %s (got %q)",
			storage.BackendSQLite, storage.BackendYAML, c.Storage.Backend)
	}

	if c.Reminders.WindowDays < 0 || c.Reminders.WindowDays > 365 {
		return fmt.Errorf("reminders.window_days must be between 0 and 365 (got %d)", c.Reminders.WindowDays)
	}

	if !types.LeapDayPolicy(c.Reminders.LeapDay).IsValid() {
		return fmt.Errorf("reminders.leap_day must be %s or %s (got %q)",
			types.LeapDayFeb28, types.LeapDayMar1, c.Reminders.LeapDay)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error (got %q)", c.Log.Level)
	}

	return nil
}

// ReminderOptions converts the reminder section for the book package.
func (c *Config) ReminderOptions() book.ReminderOptions {
	return book.ReminderOptions{
		WindowDays: c.Reminders.WindowDays,
		LeapDay:    types.LeapDayPolicy(c.Reminders.LeapDay),
	}
}

// StorageConfig converts the storage section, using path when the config
// does not pin one.
func (c *Config) StorageConfig(path string) *storage.Config {
	if c.Storage.Path != "" {
		path = c.Storage.Path
	}
	return &storage.Config{Backend: c.Storage.Backend, Path: path}
}

// SaveDefault writes the default configuration to path, creating parent
// directories.
func SaveDefault(path string) error {
	return Default().Save(path)
}

// Save writes c to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvString copies a non-empty environment variable into dest
func parseEnvString(key string, dest *string) {
	if value := os.Getenv(key); value != "" {
		*dest = value
	}
}
