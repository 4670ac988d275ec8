package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults, applies
// SPYGLASS_* environment variable overrides, and validates the result.
//
// The loading sequence is:
//  1. Parse YAML from path (a missing file is an error; pass "" to start
//     from an all-defaults configuration)
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Variables use
// the format SPYGLASS_SECTION_FIELD and always take precedence over the
// file.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("SPYGLASS_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("SPYGLASS_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("SPYGLASS_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("SPYGLASS_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("SPYGLASS_LOG_FILE"); val != "" {
		cfg.Telemetry.Logging.File.Path = val
		if cfg.Telemetry.Logging.File.MaxSizeMB == 0 {
			cfg.Telemetry.Logging.File.MaxSizeMB = DefaultLogMaxSizeMB
		}
		if cfg.Telemetry.Logging.File.MaxBackups == 0 {
			cfg.Telemetry.Logging.File.MaxBackups = DefaultLogMaxBackups
		}
	}
	if val := os.Getenv("SPYGLASS_ADMIN_SECRET"); val != "" {
		cfg.Auth.AdminSecret = val
	}
}
