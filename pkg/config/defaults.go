package config

import "time"

// Default values applied by ApplyDefaults.
const (
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20 // 1 MB
	DefaultShutdownTimeout = 15 * time.Second

	DefaultMetricsEnabled = true

	DefaultLogLevel      = "info"
	DefaultLogMaxSizeMB  = 5
	DefaultLogMaxBackups = 3
)

// DefaultDurationBuckets are the histogram bucket bounds for
// http_request_duration_seconds, in seconds. Scrapers depend on these
// exact bounds; changing them breaks recorded quantile queries.
var DefaultDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0}

// ApplyDefaults fills in zero-valued fields with default values.
// It never overrides a value that was explicitly set.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Telemetry.Metrics.Enabled == nil {
		enabled := DefaultMetricsEnabled
		cfg.Telemetry.Metrics.Enabled = &enabled
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.File.Path != "" {
		if cfg.Telemetry.Logging.File.MaxSizeMB == 0 {
			cfg.Telemetry.Logging.File.MaxSizeMB = DefaultLogMaxSizeMB
		}
		if cfg.Telemetry.Logging.File.MaxBackups == 0 {
			cfg.Telemetry.Logging.File.MaxBackups = DefaultLogMaxBackups
		}
	}
}
