// Package config provides configuration management for the portfolio tracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "portfolio-tracker/internal/errors"
	"portfolio-tracker/internal/logging"
	"portfolio-tracker/internal/money"
)

// Config holds all application configuration.
type Config struct {
	Engine     EngineConfig    `mapstructure:"engine"`
	LivePrices LivePriceConfig `mapstructure:"live_prices"`
	Logging    LoggingConfig   `mapstructure:"logging"`
	UI         UIConfig        `mapstructure:"ui"`

	// Path is the file the configuration was read from.
	Path string `mapstructure:"-"`
}

// EngineConfig holds defaults for new portfolios and the calculation cache.
type EngineConfig struct {
	CacheCapacity        int    `mapstructure:"cache_capacity"`
	DefaultCurrency      string `mapstructure:"default_currency"`
	DefaultPortfolioName string `mapstructure:"default_portfolio_name"`
	CashBufferName       string `mapstructure:"cash_buffer_name"`
}

// LivePriceConfig holds live pricing defaults for new portfolios.
type LivePriceConfig struct {
	Enabled               bool `mapstructure:"enabled"`
	UpdateIntervalMinutes int  `mapstructure:"update_interval_minutes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/portfolio-tracker"
	}
	return filepath.Join(home, ".config", "portfolio-tracker")
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	log := logging.DefaultLogConfig()

	v.SetDefault("engine.cache_capacity", 10)
	v.SetDefault("engine.default_currency", "GBP")
	v.SetDefault("engine.default_portfolio_name", "Main")
	v.SetDefault("engine.cash_buffer_name", "Cash buffer")

	v.SetDefault("live_prices.enabled", false)
	v.SetDefault("live_prices.update_interval_minutes", 15)

	v.SetDefault("logging.level", log.Level)
	v.SetDefault("logging.console", log.Console)
	v.SetDefault("logging.file", log.File)
	v.SetDefault("logging.file_path", log.FilePath)
	v.SetDefault("logging.max_size_mb", log.MaxSize)
	v.SetDefault("logging.max_backups", log.MaxBackups)
	v.SetDefault("logging.max_age_days", log.MaxAge)

	v.SetDefault("ui.color_enabled", true)
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is created from the template.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}
	path, err := loadConfigFile(configDir, "config", cfg)
	if err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}
	cfg.Path = path

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) (string, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return "", err
		}
		if err := createTemplateConfig(configDir); err != nil {
			return "", err
		}
		if err := v.ReadInConfig(); err != nil {
			return "", err
		}
	}

	if err := v.Unmarshal(target); err != nil {
		return "", err
	}
	return v.ConfigFileUsed(), nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORTFOLIO_CURRENCY"); v != "" {
		cfg.Engine.DefaultCurrency = strings.TrimSpace(v)
	}
	if v := os.Getenv("PORTFOLIO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.TrimSpace(v)
	}
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true,
	"error": true, "disabled": true, "off": true,
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}, msg string) error {
		return fmt.Errorf("%w: %w", apperrors.ErrConfigInvalid, apperrors.NewValidationError(field, value, msg))
	}

	if c.Engine.CacheCapacity <= 0 {
		return invalid("engine.cache_capacity", c.Engine.CacheCapacity, "must be positive")
	}
	if !money.Known(c.Engine.DefaultCurrency) {
		return invalid("engine.default_currency", c.Engine.DefaultCurrency, "unknown ISO 4217 currency")
	}
	if strings.TrimSpace(c.Engine.DefaultPortfolioName) == "" {
		return invalid("engine.default_portfolio_name", c.Engine.DefaultPortfolioName, "must not be blank")
	}
	if strings.TrimSpace(c.Engine.CashBufferName) == "" {
		return invalid("engine.cash_buffer_name", c.Engine.CashBufferName, "must not be blank")
	}
	if c.LivePrices.UpdateIntervalMinutes < 1 {
		return invalid("live_prices.update_interval_minutes", c.LivePrices.UpdateIntervalMinutes, "must be at least 1")
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return invalid("logging.level", c.Logging.Level, "must be one of trace, debug, info, warn, error, disabled")
	}
	if c.Logging.File && c.Logging.FilePath == "" {
		return invalid("logging.file_path", c.Logging.FilePath, "required when file logging is enabled")
	}

	return nil
}

// LogConfig converts the logging section for the logging package.
func (c *Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Logging.Level,
		Console:    c.Logging.Console,
		File:       c.Logging.File,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAgeDays,
	}
}
