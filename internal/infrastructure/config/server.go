package config

import "time"

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`

	// gin mode: debug, release, test
	Mode string `mapstructure:"mode" validate:"oneof=debug release test"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"required"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`

	// Optional; when set, serve refuses to start while another instance holds it
	PIDFile string `mapstructure:"pid_file"`
}
