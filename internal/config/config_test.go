package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{"SHOPIFY_STORE_DOMAIN", "SHOPIFY_ACCESS_TOKEN", "SHOPIFY_API_VERSION", "SHOPIFY_HTTP_TIMEOUT", "LOG_LEVEL"}

// unsetAll clears every key for the test and restores it afterwards.
func unsetAll(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoad_Defaults(t *testing.T) {
	unsetAll(t)
	t.Setenv("SHOPIFY_STORE_DOMAIN", "dev-store.myshopify.com")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_123")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "dev-store.myshopify.com", cfg.StoreDomain)
	assert.Equal(t, "shpat_123", cfg.AccessToken)
	assert.Equal(t, "2024-01", cfg.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	unsetAll(t)
	t.Setenv("SHOPIFY_STORE_DOMAIN", "dev-store")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_123")
	t.Setenv("SHOPIFY_API_VERSION", "2024-07")
	t.Setenv("SHOPIFY_HTTP_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "2024-07", cfg.APIVersion)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingRequired(t *testing.T) {
	unsetAll(t)

	cfg, err := Load(noEnvFile(t))
	assert.Nil(t, cfg)
	require.ErrorIs(t, err, ErrMissing)
	assert.Contains(t, err.Error(), "SHOPIFY_STORE_DOMAIN")
	assert.Contains(t, err.Error(), "SHOPIFY_ACCESS_TOKEN")
}

func TestLoad_MissingToken(t *testing.T) {
	unsetAll(t)
	t.Setenv("SHOPIFY_STORE_DOMAIN", "dev-store")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "   ")

	_, err := Load(noEnvFile(t))
	require.ErrorIs(t, err, ErrMissing)
	assert.NotContains(t, err.Error(), "SHOPIFY_STORE_DOMAIN")
	assert.Contains(t, err.Error(), "SHOPIFY_ACCESS_TOKEN")
}

func TestLoad_FromEnvFile(t *testing.T) {
	unsetAll(t)
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SHOPIFY_STORE_DOMAIN=file-store\nSHOPIFY_ACCESS_TOKEN=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SHOPIFY_STORE_DOMAIN") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-store", cfg.StoreDomain)
	assert.Equal(t, "from-env", cfg.AccessToken)
}

func TestLoad_BadDuration(t *testing.T) {
	unsetAll(t)
	t.Setenv("SHOPIFY_STORE_DOMAIN", "dev-store")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_123")
	t.Setenv("SHOPIFY_HTTP_TIMEOUT", "soon")

	_, err := Load(noEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
