package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "portfolio-tracker/internal/errors"
)

func TestLoad_CreatesTemplateWhenMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "portfolio")

	cfg, err := Load(dir)
	require.NoError(t, err)

	_, statErr := os.Stat(TemplatePath(dir))
	assert.NoError(t, statErr)
	assert.Equal(t, TemplatePath(dir), cfg.Path)
	assert.Equal(t, 10, cfg.Engine.CacheCapacity)
	assert.Equal(t, "GBP", cfg.Engine.DefaultCurrency)
	assert.Equal(t, "Main", cfg.Engine.DefaultPortfolioName)
	assert.Equal(t, "Cash buffer", cfg.Engine.CashBufferName)
	assert.Equal(t, 15, cfg.LivePrices.UpdateIntervalMinutes)
	assert.NotEmpty(t, cfg.Logging.FilePath)
	assert.True(t, cfg.UI.ColorEnabled)
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[engine]
cache_capacity = 25
default_currency = "USD"

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Engine.CacheCapacity)
	assert.Equal(t, "USD", cfg.Engine.DefaultCurrency)
	assert.Equal(t, "Main", cfg.Engine.DefaultPortfolioName, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.LogConfig().Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_CURRENCY", "EUR")
	t.Setenv("PORTFOLIO_LOG_LEVEL", "warn")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "EUR", cfg.Engine.DefaultCurrency)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[engine]\ncache_capacity = 0\n"), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"zero capacity", func(c *Config) { c.Engine.CacheCapacity = 0 }, "engine.cache_capacity"},
		{"unknown currency", func(c *Config) { c.Engine.DefaultCurrency = "XYZ" }, "engine.default_currency"},
		{"blank portfolio name", func(c *Config) { c.Engine.DefaultPortfolioName = " " }, "engine.default_portfolio_name"},
		{"blank cash buffer", func(c *Config) { c.Engine.CashBufferName = "" }, "engine.cash_buffer_name"},
		{"zero interval", func(c *Config) { c.LivePrices.UpdateIntervalMinutes = 0 }, "live_prices.update_interval_minutes"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"file without path", func(c *Config) { c.Logging.File = true; c.Logging.FilePath = "" }, "logging.file_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *apperrors.ValidationError
			require.True(t, apperrors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
