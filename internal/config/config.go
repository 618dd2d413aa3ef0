package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`
	Log     LogConfig     `yaml:"log"`
	Display DisplayConfig `yaml:"display"`
}

// DatasetConfig selects where trip tables are loaded from
type DatasetConfig struct {
	Provider   string `yaml:"provider"`    // csv, sqlite
	DataDir    string `yaml:"data_dir"`    // directory holding <city>.csv files
	SQLitePath string `yaml:"sqlite_path"` // database file for the sqlite provider and imports
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // "-" logs to stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// DisplayConfig controls console output
type DisplayConfig struct {
	Color bool `yaml:"color"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Provider:   "csv",
			DataDir:    ".",
			SQLitePath: filepath.Join(Dir(), "bikeshare.db"),
		},
		Log: LogConfig{
			Level:      "info",
			File:       filepath.Join(Dir(), "bikeshare.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Display: DisplayConfig{
			Color: true,
		},
	}
}

// Load loads configuration from file, filling unset fields with defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadOrDefault loads the config file if it exists and returns defaults otherwise
func LoadOrDefault(path string) (*Config, error) {
	if !Exists(path) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Validate checks the configuration for unsupported values
func (c *Config) Validate() error {
	switch c.Dataset.Provider {
	case "csv", "sqlite":
	default:
		return fmt.Errorf("unsupported dataset provider: %s", c.Dataset.Provider)
	}
	if c.Dataset.Provider == "csv" && c.Dataset.DataDir == "" {
		return fmt.Errorf("dataset.data_dir is required for the csv provider")
	}
	if c.Dataset.Provider == "sqlite" && c.Dataset.SQLitePath == "" {
		return fmt.Errorf("dataset.sqlite_path is required for the sqlite provider")
	}
	return nil
}

// LoadEnvFile loads a .env file from the working directory if present
func LoadEnvFile() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	if err := godotenv.Load(filepath.Join(wd, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides configuration values from BIKESHARE_* environment variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup("BIKESHARE_PROVIDER"); ok && v != "" {
		c.Dataset.Provider = v
	}
	if v, ok := lookup("BIKESHARE_DATA_DIR"); ok && v != "" {
		c.Dataset.DataDir = v
	}
	if v, ok := lookup("BIKESHARE_SQLITE_PATH"); ok && v != "" {
		c.Dataset.SQLitePath = v
	}
	if v, ok := lookup("BIKESHARE_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("BIKESHARE_LOG_FILE"); ok && v != "" {
		c.Log.File = v
	}
	if v, ok := lookup("BIKESHARE_COLOR"); ok {
		if color, err := strconv.ParseBool(v); err == nil {
			c.Display.Color = color
		}
	}
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Dir returns the directory holding the config, log and database files
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bikeshare"
	}
	return filepath.Join(home, ".bikeshare")
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
