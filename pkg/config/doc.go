// Package config provides YAML-based configuration for Spyglass.
//
// Configuration is loaded from a single YAML file, then defaults are
// applied, then SPYGLASS_* environment variables override file values,
// and finally the result is validated. A Watcher can reload the file at
// runtime so operational knobs (most usefully the log level) can change
// without a restart.
//
// Example:
//
//	cfg, err := config.Load("spyglass.yaml")
//	if err != nil {
//		return err
//	}
//	fmt.Println(cfg.Server.ListenAddress)
package config
