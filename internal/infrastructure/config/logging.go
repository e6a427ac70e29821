package config

// LoggingConfig selects level, encoding and destination of the service log
type LoggingConfig struct {
	// debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// json lines or key=value text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// stdout, stderr or file
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// Required when Output is file; opened in append mode
	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`
}
