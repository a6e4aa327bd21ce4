package config

import "time"

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	// Unix socket path for CLI communication
	SocketPath string `mapstructure:"socket_path" validate:"required"`

	// PID file path for single-instance enforcement
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// WizardConfig holds wizard engine tuning
type WizardConfig struct {
	// Window during which repeat scans of the same code are ignored
	ScanDebounce time.Duration `mapstructure:"scan_debounce"`
}
