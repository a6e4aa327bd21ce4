package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all daemon configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig `mapstructure:"database" validate:"required"`

	// Warehouse server client configuration
	Server ServerConfig `mapstructure:"server" validate:"required"`

	// Daemon configuration
	Daemon DaemonConfig `mapstructure:"daemon"`

	// Wizard engine configuration
	Wizard WizardConfig `mapstructure:"wizard"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// LoadConfig loads configuration from environment variables and config files
func LoadConfig() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)

	// Configure environment variable handling
	v.SetEnvPrefix("HH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to read config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/handheld")

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional - only error if it exists but is malformed
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// DATABASE_URL is conventionally unprefixed; honor it when present
	if v.GetString("database.url") == "" {
		if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
			v.Set("database.url", dbURL)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// MustLoadConfig loads configuration and panics on error
func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return config
}
