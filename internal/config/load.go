package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted for secrets that must not live in the
// config file.
const (
	EnvClientSecret     = "LAKEFORGE_CLIENT_SECRET"
	EnvArchiveSecretKey = "LAKEFORGE_ARCHIVE_SECRET_KEY"
	EnvHistoryURL       = "LAKEFORGE_HISTORY_DATABASE_URL"
)

// LoadFile reads, defaults, and validates the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse unmarshals, defaults, and validates raw YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Tenant.ClientSecret == "" {
		cfg.Tenant.ClientSecret = os.Getenv(EnvClientSecret)
	}
	if cfg.Report.Archive.SecretKey == "" {
		cfg.Report.Archive.SecretKey = os.Getenv(EnvArchiveSecretKey)
	}
	if cfg.Report.History.URL == "" {
		cfg.Report.History.URL = os.Getenv(EnvHistoryURL)
	}

	if cfg.Execution.Workers == 0 {
		cfg.Execution.Workers = 4
	}
	if cfg.Capacity.OnPollTimeout == "" {
		cfg.Capacity.OnPollTimeout = OnTimeoutProceed
	}
	if cfg.Purview.Scan.OnPollTimeout == "" {
		cfg.Purview.Scan.OnPollTimeout = OnTimeoutProceed
	}
	if cfg.Purview.Collection.FriendlyName == "" {
		cfg.Purview.Collection.FriendlyName = cfg.Purview.Collection.Name
	}
}
