package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"spyglass-hq/spyglass/pkg/config"
)

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) RecordLogMessage(level string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[level]++
}

func newFileLogger(t *testing.T, level string, rec MetricsRecorder) (*Logger, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&config.LoggingConfig{
		Level: level,
		File: config.LogFileConfig{
			Path:       path,
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}, rec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l, path
}

func TestLogger_LineFormat(t *testing.T) {
	l, path := newFileLogger(t, "debug", nil)

	l.Slog().Info("service started", "port", 8080)
	l.Slog().Warn("retry scheduled", "attempt", 2, "reason", "connection refused")
	l.Slog().Error("boom")
	l.Slog().Debug("verbose detail")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}

	wantContains := []struct {
		level string
		text  string
	}{
		{"INFO", "service started port=8080"},
		{"WARNING", `retry scheduled attempt=2 reason="connection refused"`},
		{"ERROR", "boom"},
		{"DEBUG", "verbose detail"},
	}
	for i, want := range wantContains {
		fields := strings.SplitN(lines[i], " ", 3)
		if len(fields) != 3 {
			t.Fatalf("line %d not in 'date time rest' form: %q", i, lines[i])
		}
		if _, err := time.Parse("2006-01-02 15:04:05", fields[0]+" "+fields[1]); err != nil {
			t.Errorf("line %d timestamp unparsable: %v", i, err)
		}
		rest := fields[2]
		if !strings.HasPrefix(rest, want.level+" ") {
			t.Errorf("line %d = %q, want level %s", i, lines[i], want.level)
		}
		if !strings.Contains(rest, want.text) {
			t.Errorf("line %d = %q, want substring %q", i, lines[i], want.text)
		}
	}
}

func TestLogger_LevelFilterAndSetLevel(t *testing.T) {
	l, path := newFileLogger(t, "warn", nil)

	l.Slog().Info("suppressed")
	l.Slog().Warn("kept")

	if err := l.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	l.Slog().Debug("now visible")

	data, _ := os.ReadFile(path)
	out := string(data)
	if strings.Contains(out, "suppressed") {
		t.Error("info line written despite warn level")
	}
	if !strings.Contains(out, "kept") || !strings.Contains(out, "now visible") {
		t.Errorf("expected kept and now-visible lines, got %q", out)
	}

	if err := l.SetLevel("nonsense"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLogger_MetricsHook(t *testing.T) {
	rec := &countingRecorder{}
	l, _ := newFileLogger(t, "info", rec)

	l.Slog().Info("a")
	l.Slog().Info("b")
	l.Slog().Error("c")
	l.Slog().Debug("filtered, not counted")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.counts["INFO"] != 2 || rec.counts["ERROR"] != 1 {
		t.Errorf("recorder counts = %v, want INFO:2 ERROR:1", rec.counts)
	}
	if rec.counts["DEBUG"] != 0 {
		t.Errorf("suppressed line was counted: %v", rec.counts)
	}
}

func TestLogger_WithAttrsAndGroup(t *testing.T) {
	l, path := newFileLogger(t, "info", nil)

	l.Slog().With("component", "server").WithGroup("req").Info("done", "id", "abc")

	data, _ := os.ReadFile(path)
	line := strings.TrimSpace(string(data))
	if !strings.Contains(line, "component=server") {
		t.Errorf("missing bound attr in %q", line)
	}
	if !strings.Contains(line, "req.id=abc") {
		t.Errorf("missing grouped attr in %q", line)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "DEBUG"},
		{slog.LevelInfo, "INFO"},
		{slog.LevelWarn, "WARNING"},
		{slog.LevelError, "ERROR"},
		{slog.LevelError + 4, "ERROR"},
	}
	for _, tt := range tests {
		if got := LevelString(tt.level); got != tt.want {
			t.Errorf("LevelString(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLogger_NoFileWritesStderrOnly(t *testing.T) {
	l, err := New(&config.LoggingConfig{Level: "info"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	if l.FilePath() != "" {
		t.Errorf("FilePath = %q, want empty", l.FilePath())
	}
	// Must not panic without a file sink
	l.Slog().InfoContext(context.Background(), "stderr only")
}
