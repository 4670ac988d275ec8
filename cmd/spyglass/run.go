package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"spyglass-hq/spyglass/pkg/config"
	"spyglass-hq/spyglass/pkg/logquery"
	"spyglass-hq/spyglass/pkg/server"
	"spyglass-hq/spyglass/pkg/telemetry/health"
	"spyglass-hq/spyglass/pkg/telemetry/logging"
	"spyglass-hq/spyglass/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Spyglass server",
	Long: `Start the Spyglass server with the specified configuration.

Examples:
  # Start with default config
  spyglass run

  # Start with custom config
  spyglass run --config /etc/spyglass/spyglass.yaml

  # Override listen address
  spyglass run --listen 0.0.0.0:8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Metrics collector, shared across the process
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	// Application logger writing through the rotation writer; every
	// emitted line also feeds log_messages_total
	logger, err := logging.New(&cfg.Telemetry.Logging, collector)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Log query engine over the same file the logger writes
	engine := logquery.NewEngine(logger.FilePath())
	logs := logquery.NewHandler(engine, logger.Slog())

	// Scheduled log file stats
	stats := logquery.NewStatsScheduler(engine, cfg.Telemetry.Logging.StatsSchedule, collector.Registry(), logger.Slog())
	if err := stats.Start(ctx); err != nil {
		return fmt.Errorf("failed to start log stats scheduler: %w", err)
	}

	// Health checks
	checker := health.New(0)
	if path := logger.FilePath(); path != "" {
		checker.Register("logfile", func(ctx context.Context) error {
			if _, err := os.Stat(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("log file inaccessible: %w", err)
			}
			return nil
		})
	}

	// Config hot reload: re-apply the log level without a restart
	if cfgFile != "" {
		watcher := config.NewWatcher(cfgFile, logger.Slog())
		go func() {
			if err := watcher.Watch(ctx, func(newCfg *config.Config) {
				if err := logger.SetLevel(newCfg.Telemetry.Logging.Level); err != nil {
					logger.Slog().Error("ignoring reloaded log level", "error", err)
				}
			}); err != nil {
				logger.Slog().Error("config watcher stopped", "error", err)
			}
		}()
	}

	srv := server.New(cfg, collector, logs, checker, logger.Slog())

	logger.Slog().Info("spyglass starting",
		"version", Version,
		"address", cfg.Server.ListenAddress,
		"log_file", logger.FilePath(),
	)

	return srv.Start(ctx)
}
