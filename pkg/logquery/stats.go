package logquery

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

// StatsScheduler periodically gauges the active log file so rotation
// pressure is visible from the same scrape as the request metrics:
//
//   - log_file_size_bytes: size of the active file
//   - log_backup_files: number of rotated backups on disk
//
// It runs on a cron schedule (e.g. "@every 1m") and stops with its
// context.
type StatsScheduler struct {
	engine   *Engine
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	fileSize    prometheus.Gauge
	backupCount prometheus.Gauge

	mu      sync.Mutex
	running bool
}

// NewStatsScheduler creates a scheduler and registers its gauges with
// the given registry.
func NewStatsScheduler(engine *Engine, schedule string, registry *prometheus.Registry, logger *slog.Logger) *StatsScheduler {
	if logger == nil {
		logger = slog.Default()
	}

	s := &StatsScheduler{
		engine:   engine,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "logquery.stats"),

		fileSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "log_file_size_bytes",
			Help: "Size of the active application log file in bytes",
		}),
		backupCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "log_backup_files",
			Help: "Number of rotated log backup files on disk",
		}),
	}

	if registry != nil {
		registry.MustRegister(s.fileSize, s.backupCount)
	}
	return s
}

// Start begins scheduled collection. It collects once immediately so the
// gauges are populated before the first tick, then on every schedule
// firing until ctx is cancelled. An empty schedule or an engine without
// a file disables the scheduler.
func (s *StatsScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("stats scheduler already running")
	}
	if s.schedule == "" || s.engine.Path() == "" {
		s.logger.Info("log stats collection disabled")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid stats schedule %q: %w", s.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.schedule, s.collect); err != nil {
		return fmt.Errorf("failed to schedule log stats collection: %w", err)
	}

	s.collect()
	s.cron.Start()
	s.running = true

	s.logger.Info("log stats scheduler started", "schedule", s.schedule, "path", s.engine.Path())

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts scheduled collection and waits for a running job to finish.
func (s *StatsScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("log stats scheduler stopped")
}

// collect samples the file system once.
func (s *StatsScheduler) collect() {
	if info, err := os.Stat(s.engine.Path()); err == nil {
		s.fileSize.Set(float64(info.Size()))
	} else {
		// Not rotated away forever, just not written yet
		s.fileSize.Set(0)
	}
	s.backupCount.Set(float64(len(s.engine.BackupFiles())))
}
