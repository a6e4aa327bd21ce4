package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Database defaults - on-device sqlite
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.url", "handheld.db")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	// Warehouse server defaults
	v.SetDefault("server.base_url", "http://localhost:8080/api")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.rate_limit.requests", 5)
	v.SetDefault("server.rate_limit.burst", 5)
	v.SetDefault("server.retry.max_attempts", 5)
	v.SetDefault("server.retry.backoff_base", time.Second)

	// Daemon defaults
	v.SetDefault("daemon.socket_path", "/tmp/handheld-daemon.sock")
	v.SetDefault("daemon.pid_file", "/tmp/handheld-daemon.pid")
	v.SetDefault("daemon.shutdown_timeout", 10*time.Second)

	// Wizard defaults
	v.SetDefault("wizard.scan_debounce", time.Second)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
}
