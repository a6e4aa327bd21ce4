package config

import "time"

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// Database type: "sqlite" or "postgres"
	// Handheld devices run on-device sqlite; postgres serves shared test rigs
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`

	// Connection URL or file path
	URL string `mapstructure:"url" validate:"required"`

	// Connection pool settings
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}
