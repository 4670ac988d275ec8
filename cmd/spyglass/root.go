package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "spyglass",
	Short: "Spyglass - HTTP service telemetry and log inspection",
	Long: `Spyglass is an HTTP service instrumented with operational telemetry
and a read path for recent application logs.

It provides:
  - Prometheus metrics for request counts, durations, errors, and concurrency
  - Endpoint normalization to keep metric cardinality bounded
  - Size-rotated application logging
  - Admin endpoints to inspect recent log lines with level and text filters`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
}
