package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"spyglass-hq/spyglass/pkg/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// MetricsRecorder receives one call per committed log line so the
// metrics subsystem can maintain log_messages_total{level}. A nil
// recorder disables the counting.
type MetricsRecorder interface {
	RecordLogMessage(level string)
}

// Logger is the application logger. It writes fixed-layout text lines
// through a size-rotated file (lumberjack: rotate at MaxSizeMB, keep
// MaxBackups old files), which is the same file the log query engine
// reads back. When no file is configured, lines go to stderr and the
// log endpoints have nothing to serve.
type Logger struct {
	slog  *slog.Logger
	level *slog.LevelVar
	file  *lumberjack.Logger
}

// New creates a Logger from the logging configuration. The returned
// logger owns the rotation writer; call Close on shutdown to release the
// file handle.
func New(cfg *config.LoggingConfig, metrics MetricsRecorder) (*Logger, error) {
	level := new(slog.LevelVar)
	if err := setLevel(level, cfg.Level); err != nil {
		return nil, err
	}

	var (
		w    io.Writer = os.Stderr
		file *lumberjack.Logger
	)
	if cfg.File.Path != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}
		w = file
	}

	return &Logger{
		slog:  slog.New(newLineHandler(w, level, metrics)),
		level: level,
		file:  file,
	}, nil
}

// Slog returns the underlying slog.Logger for structured logging calls.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// SetLevel changes the minimum level at runtime. Used by the config
// watcher so a reload takes effect without restarting.
func (l *Logger) SetLevel(levelStr string) error {
	return setLevel(l.level, levelStr)
}

// FilePath returns the active log file path, or "" when file logging is
// disabled.
func (l *Logger) FilePath() string {
	if l.file == nil {
		return ""
	}
	return l.file.Filename
}

// Close releases the rotation writer's file handle.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// setLevel parses a level string and stores it in the LevelVar.
func setLevel(v *slog.LevelVar, levelStr string) error {
	switch levelStr {
	case "debug", "DEBUG":
		v.Set(slog.LevelDebug)
	case "info", "INFO", "":
		v.Set(slog.LevelInfo)
	case "warn", "WARN", "warning", "WARNING":
		v.Set(slog.LevelWarn)
	case "error", "ERROR":
		v.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", levelStr)
	}
	return nil
}
