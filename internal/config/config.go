// Package config loads the application configuration from a single
// YAML file named by the --config flag or the POS_CONFIG environment
// variable. There is no automatic discovery and no hidden overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// Currency is the ISO 4217 code products are priced in.
	Currency string `yaml:"currency"`

	Postgres PostgresConfig `yaml:"postgres"`
	Settings SettingsConfig `yaml:"settings"`
}

type PostgresConfig struct {
	// DSN is the connection string for the store database.
	DSN string `yaml:"dsn"`
}

type SettingsConfig struct {
	// Path is the SQLite file holding the local settings store.
	Path string `yaml:"path"`
}

// EnvVar names the environment variable consulted when no --config
// flag is given.
const EnvVar = "POS_CONFIG"

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("os.ReadFile: %w", err)
	}

	cfg := Config{
		LogLevel: "info",
		Currency: "USD",
		Settings: SettingsConfig{Path: "pos-settings.db"},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required")
	}
	if _, err := currency.ParseISO(c.Currency); err != nil {
		return fmt.Errorf("currency %q is not a valid ISO 4217 code", c.Currency)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// CurrencyUnit returns the configured pricing currency.
func (c Config) CurrencyUnit() currency.Unit {
	unit, _ := currency.ParseISO(c.Currency)
	return unit
}

func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
}
