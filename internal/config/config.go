// Package config loads CLI settings from an optional YAML file, a .env file
// and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abatilo/taskflow/internal/storage"
)

const (
	appDir     = ".taskflow"
	configFile = "config.yaml"

	// DefaultAddr is the listen address of the local HTTP adapter.
	DefaultAddr = "127.0.0.1:7777"
)

// Config holds the settings used to assemble the application.
type Config struct {
	DataDir  string `yaml:"data_dir"`
	Backend  string `yaml:"backend"`
	Slot     string `yaml:"slot"`
	LogLevel string `yaml:"log_level"`
	Addr     string `yaml:"addr"`
}

// Default returns the built-in configuration rooted at home.
func Default(home string) Config {
	return Config{
		DataDir:  filepath.Join(home, appDir),
		Backend:  storage.BackendFile,
		Slot:     storage.DefaultSlotName,
		LogLevel: "warn",
		Addr:     DefaultAddr,
	}
}

// ApplyDefaults fills empty fields from d.
func (c *Config) ApplyDefaults(d Config) {
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.Slot == "" {
		c.Slot = d.Slot
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Addr == "" {
		c.Addr = d.Addr
	}
}

// Validate rejects unknown backends and log levels.
func (c Config) Validate() error {
	switch c.Backend {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		return storage.UnknownBackendError{Name: c.Backend}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if strings.TrimSpace(c.Slot) == "" {
		return errors.New("slot name must not be empty")
	}
	return nil
}

// LoadFile reads a YAML config file. A missing file yields an empty Config.
func LoadFile(path string) (Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Load builds the configuration: ~/.taskflow/config.yaml (or TASKFLOW_CONFIG),
// then .env in the working directory, then TASKFLOW_* environment variables.
func Load() (Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	d := Default(home)

	path := EnvOrDefault("TASKFLOW_CONFIG", filepath.Join(d.DataDir, configFile))
	c, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}

	c.DataDir = EnvOrDefault("TASKFLOW_DATA_DIR", c.DataDir)
	c.Backend = EnvOrDefault("TASKFLOW_BACKEND", c.Backend)
	c.Slot = EnvOrDefault("TASKFLOW_SLOT", c.Slot)
	c.LogLevel = EnvOrDefault("TASKFLOW_LOG_LEVEL", c.LogLevel)
	c.Addr = EnvOrDefault("TASKFLOW_ADDR", c.Addr)
	c.ApplyDefaults(d)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// EnvOrDefault returns the environment variable value or fallback when it is empty.
func EnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", s)
	}
}
