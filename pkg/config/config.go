package config

import "time"

// Config is the root configuration for Spyglass.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Auth      AuthConfig      `yaml:"auth"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the host:port the server binds to
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// MaxHeaderBytes limits the size of request headers
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled turns metric collection on or off. A pointer so an absent
	// field can be told apart from an explicit false; leave unset to get
	// the default (enabled).
	Enabled *bool `yaml:"enabled"`

	// DurationBuckets are histogram bucket upper bounds in seconds for
	// http_request_duration_seconds
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// IsEnabled reports whether metric collection is active. An unset field
// counts as enabled.
func (c *MetricsConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// LoggingConfig contains application logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error")
	Level string `yaml:"level"`

	// File is the rotated log file configuration. An empty path disables
	// file logging (stderr only), which also disables the /logs endpoints.
	File LogFileConfig `yaml:"file"`

	// StatsSchedule is a cron expression for the log file stats job.
	// Empty disables the job.
	StatsSchedule string `yaml:"stats_schedule"`
}

// LogFileConfig describes the size-based rotation policy for the
// application log file.
type LogFileConfig struct {
	// Path is the active log file location
	Path string `yaml:"path"`

	// MaxSizeMB is the rotation trigger in megabytes
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays removes rotated files older than this (0 = keep)
	MaxAgeDays int `yaml:"max_age_days"`

	// Compress gzips rotated files
	Compress bool `yaml:"compress"`
}

// AuthConfig contains settings for the admin log endpoints.
type AuthConfig struct {
	// AdminSecret is the HMAC secret used to validate admin bearer
	// tokens. Empty disables authentication (development mode).
	AdminSecret string `yaml:"admin_secret"`
}
