package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
database:
  host: localhost
  port: "5432"
  user: u
  name: db
shop:
  catalog_file: configs/catalog.yaml
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "longpoll", cfg.Telegram.RunMode)
	assert.Equal(t, "XTR", cfg.Shop.Currency)
	assert.Equal(t, "Your order", cfg.Shop.InvoiceTitle)
	assert.Equal(t, "configs/catalog.yaml", cfg.Shop.CatalogFile)
	require.NotNil(t, cfg.CoreConfig())
	assert.Equal(t, "123:abc", cfg.CoreConfig().Telegram.Token)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: ""
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestLoadConfigFiatNeedsProviderToken(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
shop:
  currency: eur
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider_token")

	path = writeConfig(t, `
telegram:
  token: "123:abc"
shop:
  currency: eur
  provider_token: "pt:123"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Shop.Currency)
}
