package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`

	// Log format: json or text
	Format string `mapstructure:"format" validate:"oneof=json text"`

	// Log output: stdout, stderr, or file path
	Output string `mapstructure:"output"`
}
