package app

import (
	"fmt"
	"os"
	"strings"

	coreconfig "finbot/core/config"
	coredatabase "finbot/core/database"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// BotConfig holds settings specific to the finance bot.
type BotConfig struct {
	// DefaultMenu is the menu a user without a session lands on.
	DefaultMenu string `yaml:"default_menu" envconfig:"BOT_DEFAULT_MENU"`
	// PageSize bounds list screens like the accounts menu.
	PageSize int `yaml:"page_size" envconfig:"BOT_PAGE_SIZE"`
	// DefaultCurrency is used when an account is created without one.
	DefaultCurrency string `yaml:"default_currency" envconfig:"BOT_DEFAULT_CURRENCY"`
}

// Config aggregates core and bot-specific configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:"core"`
	Database coredatabase.Config `yaml:"database"`
	Bot      BotConfig           `yaml:"bot"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// LoadConfig reads configuration from a YAML file and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	normalizeBot(&cfg.Bot)
	return &cfg, nil
}

func normalizeBot(cfg *BotConfig) {
	if strings.TrimSpace(cfg.DefaultMenu) == "" {
		cfg.DefaultMenu = "main"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if strings.TrimSpace(cfg.DefaultCurrency) == "" {
		cfg.DefaultCurrency = "USD"
	}
}
