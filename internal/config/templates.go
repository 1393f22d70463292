package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Portfolio Tracker Configuration

[engine]
# Entries kept per calculation cache table (live, target, derived)
cache_capacity = 10
# ISO 4217 currency for new portfolios
default_currency = "GBP"
# Name of the portfolio created for an empty state
default_portfolio_name = "Main"
# Name of the synthetic cash holding sized by set-total
cash_buffer_name = "Cash buffer"

[live_prices]
# Enable live pricing for new portfolios
enabled = false
# Minutes between quote refreshes
update_interval_minutes = 15

[logging]
# Level: trace, debug, info, warn, error, disabled
level = "info"
# Log to stderr
console = true
# Log to a rotating file
file = false
# file_path defaults to ~/.config/portfolio-tracker/logs/portfolio.log
max_size_mb = 20
max_backups = 5
max_age_days = 30

[ui]
# Enable colored output
color_enabled = true
`

// TemplatePath returns where the config template lives in configDir.
func TemplatePath(configDir string) string {
	return filepath.Join(configDir, "config.toml")
}

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := TemplatePath(configDir)
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
