// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/iwvelando/stock-planner/pkg/constants"
)

// Configuration holds all configuration for stock-planner.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Storage StorageConfig `yaml:"storage,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	Locale  string        `yaml:"locale,omitempty"` // en, es
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// StorageConfig holds farm state persistence options
type StorageConfig struct {
	DataDir string `yaml:"dataDir,omitempty"`
}

// ServerConfig holds HTTP server options for serve mode
type ServerConfig struct {
	Address             string `yaml:"address,omitempty"`
	MaxRequestSizeBytes int64  `yaml:"maxRequestSizeBytes,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file is not an error: the tool runs with
// built-in defaults until the player writes a config.
func LoadConfiguration(configPath string) (*Configuration, error) {
	var configuration Configuration

	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			configuration.ApplyDefaults()
			return &configuration, nil
		}
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills in every unset option with its built-in default.
func (c *Configuration) ApplyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = constants.DefaultDataDir
	}
	if c.Server.Address == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
	if c.Server.MaxRequestSizeBytes <= 0 {
		c.Server.MaxRequestSizeBytes = constants.DefaultMaxRequestSizeBytes
	}
	if c.Locale == "" {
		c.Locale = constants.DefaultLocale
	}
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	switch c.Locale {
	case "", "en", "es":
	default:
		warnings = append(warnings, fmt.Sprintf("Locale '%s' is not a bundled language - product names fall back to English", c.Locale))
	}

	switch c.Output.Format {
	case "", constants.OutputFormatPretty, constants.OutputFormatCSV:
	default:
		warnings = append(warnings, fmt.Sprintf("Output format '%s' is not supported - expected %s or %s",
			c.Output.Format, constants.OutputFormatPretty, constants.OutputFormatCSV))
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("Log level '%s' is not recognized - expected debug, info, warn, or error", c.Logging.Level))
	}

	return warnings
}
