package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path, applies default values, and validates the result. Environment
// variables are not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention INFOMAT_SECTION_FIELD (e.g. INFOMAT_MODEL_NAME) and always
// take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides using the
// format INFOMAT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Model overrides
	if val := os.Getenv("INFOMAT_MODEL_NAME"); val != "" {
		cfg.Model.Name = val
	}
	if val := os.Getenv("INFOMAT_MODEL_BASE_URL"); val != "" {
		cfg.Model.BaseURL = val
	}
	if val := os.Getenv("INFOMAT_MODEL_API_KEY_ENV"); val != "" {
		cfg.Model.APIKeyEnv = val
	}
	if val := os.Getenv("INFOMAT_MODEL_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Model.Timeout = d
		}
	}
	if val := os.Getenv("INFOMAT_MODEL_CONTEXT_WINDOW"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Model.ContextWindow = i
		}
	}

	// Pricing overrides
	if val := os.Getenv("INFOMAT_PRICING_RATE_PER_1K"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Pricing.RatePer1K = f
		}
	}
	if val := os.Getenv("INFOMAT_PRICING_FX_RATE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Pricing.FxRate = f
		}
	}
	if val := os.Getenv("INFOMAT_PRICING_MARKUP"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Pricing.Markup = f
		}
	}
	if val := os.Getenv("INFOMAT_PRICING_WELCOME_BALANCE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Pricing.WelcomeBalance = i
		}
	}

	// Storage overrides
	if val := os.Getenv("INFOMAT_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("INFOMAT_STORAGE_PATH"); val != "" {
		cfg.Storage.Path = val
	}

	// Server overrides
	if val := os.Getenv("INFOMAT_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}

	// Telemetry overrides
	if val := os.Getenv("INFOMAT_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("INFOMAT_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("INFOMAT_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}

	// Cache overrides
	if val := os.Getenv("INFOMAT_CACHE_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Cache.Size = i
		}
	}
}
