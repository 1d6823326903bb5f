package configs

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/songsim/pkg/audio/features"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// Database settings
	Database DatabaseConfig `mapstructure:"database"`

	// Feature extraction settings
	Features features.Config `mapstructure:"features"`

	// Build settings
	Build BuildConfig `mapstructure:"build"`

	// Query settings
	Query QueryConfig `mapstructure:"query"`

	// Interactive front end settings
	Serve ServeConfig `mapstructure:"serve"`
}

// DatabaseConfig contains database persistence settings
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// BuildConfig contains database build settings
type BuildConfig struct {
	Workers  int  `mapstructure:"workers"`
	Progress bool `mapstructure:"progress"`
}

// QueryConfig contains similarity query settings
type QueryConfig struct {
	TopN int `mapstructure:"top_n"`
}

// ServeConfig contains the interactive front end settings
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	v := viper.GetViper()
	setDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}

	if config.Build.Workers < 1 {
		return fmt.Errorf("build workers must be >= 1")
	}

	if config.Query.TopN < 1 {
		return fmt.Errorf("query top_n must be >= 1")
	}

	if err := config.Features.Validate(); err != nil {
		return fmt.Errorf("features: %w", err)
	}

	return nil
}
