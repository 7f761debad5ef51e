package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/burgerbot/core/config"
	coredatabase "github.com/m3rciful/burgerbot/core/database"
)

// ShopConfig holds the commerce settings of the bot.
type ShopConfig struct {
	// Currency is the invoice currency; XTR means Telegram Stars and
	// needs no provider token.
	Currency           string `yaml:"currency" envconfig:"SHOP_CURRENCY"`
	ProviderToken      string `yaml:"provider_token" envconfig:"SHOP_PROVIDER_TOKEN"`
	InvoiceTitle       string `yaml:"invoice_title" envconfig:"SHOP_INVOICE_TITLE"`
	InvoiceDescription string `yaml:"invoice_description" envconfig:"SHOP_INVOICE_DESCRIPTION"`
	CatalogFile        string `yaml:"catalog_file" envconfig:"SHOP_CATALOG_FILE"`
}

// Config is the full application configuration: the reusable core sections
// plus database and shop.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Shop     ShopConfig          `yaml:"shop"`
}

// CoreConfig exposes the embedded core configuration to the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads the YAML file, applies env overrides and validates.
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

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalizeShop(&cfg.Shop); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeShop(s *ShopConfig) error {
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if s.Currency == "" {
		s.Currency = "XTR"
	}
	if s.Currency != "XTR" && strings.TrimSpace(s.ProviderToken) == "" {
		return fmt.Errorf("shop.provider_token is required for currency %q", s.Currency)
	}
	if s.InvoiceTitle == "" {
		s.InvoiceTitle = "Your order"
	}
	return nil
}
