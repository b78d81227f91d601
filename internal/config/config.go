// Package config loads the store credentials and runtime knobs from the
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when it exists. Values already in the environment win.
const DefaultEnvFile = ".env"

var ErrMissing = errors.New("missing required configuration")

type Config struct {
	StoreDomain string `env:"SHOPIFY_STORE_DOMAIN"`
	AccessToken string `env:"SHOPIFY_ACCESS_TOKEN"`

	APIVersion  string        `env:"SHOPIFY_API_VERSION" envDefault:"2024-01"`
	HTTPTimeout time.Duration `env:"SHOPIFY_HTTP_TIMEOUT" envDefault:"30s"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads envFiles (DefaultEnvFile when none are given), then parses the
// environment. Missing files are skipped.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if strings.TrimSpace(c.StoreDomain) == "" {
		missing = append(missing, "SHOPIFY_STORE_DOMAIN")
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		missing = append(missing, "SHOPIFY_ACCESS_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	return nil
}
