package config

import (
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for errors. It returns the first
// problem found, wrapped with enough context to locate the offending
// field in the YAML file.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen_address %q: %w", cfg.ListenAddress, err)
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if cfg.MaxHeaderBytes < 0 {
		return fmt.Errorf("max_header_bytes must not be negative")
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	buckets := cfg.Metrics.DurationBuckets
	if len(buckets) > 0 && !sort.Float64sAreSorted(buckets) {
		return fmt.Errorf("metrics: duration_buckets must be in ascending order")
	}
	for _, b := range buckets {
		if b <= 0 {
			return fmt.Errorf("metrics: duration_buckets must be positive, got %v", b)
		}
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging: unknown level %q", cfg.Logging.Level)
	}

	if f := cfg.Logging.File; f.Path != "" {
		if f.MaxSizeMB <= 0 {
			return fmt.Errorf("logging: file.max_size_mb must be positive")
		}
		if f.MaxBackups < 0 || f.MaxAgeDays < 0 {
			return fmt.Errorf("logging: file.max_backups and file.max_age_days must not be negative")
		}
	}

	if s := cfg.Logging.StatsSchedule; s != "" {
		if _, err := cron.ParseStandard(s); err != nil {
			return fmt.Errorf("logging: invalid stats_schedule %q: %w", s, err)
		}
	}

	return nil
}
