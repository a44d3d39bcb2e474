// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"payopt/pkg/constants"
)

// Configuration holds all configuration for payopt.
type Configuration struct {
	Engine  EngineConfig  `yaml:"engine,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// EngineConfig holds allocation engine options.
type EngineConfig struct {
	PointsMethodID string `yaml:"pointsMethodId,omitempty"` // defaults to PUNKTY
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // report, pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()

	return &configuration, nil
}

// Default returns a configuration with all defaults applied, used when
// no config file is given.
func Default() *Configuration {
	configuration := &Configuration{}
	configuration.applyDefaults()
	return configuration
}

func (conf *Configuration) applyDefaults() {
	if conf.Engine.PointsMethodID == "" {
		conf.Engine.PointsMethodID = constants.PointsMethodID
	}
	if conf.Output.Format == "" {
		conf.Output.Format = constants.OutputFormatReport
	}
}
