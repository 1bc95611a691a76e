// Package config manages qpdiff configuration.
//
// Configuration names the two planner command lines and the planner
// options passed through to both sides. It is loaded from a YAML file,
// which can be set explicitly, via the QPDIFF_CONFIG environment
// variable, or omitted entirely to run on defaults.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// PlannerConfig describes how to invoke one planner.
type PlannerConfig struct {
	// Command is the planner command line. The {schema} and
	// {operation} placeholders are replaced with temp file paths.
	Command []string `mapstructure:"command"`
}

// Options are planner options forwarded to both planners. Both sides
// always receive the same options so that option handling itself is
// never the source of a divergence.
type Options struct {
	GenerateFragments       bool `mapstructure:"generate_fragments"`
	TypeConditionedFetching bool `mapstructure:"type_conditioned_fetching"`
}

// Config is the full qpdiff configuration.
type Config struct {
	Legacy  PlannerConfig `mapstructure:"legacy"`
	Native  PlannerConfig `mapstructure:"native"`
	Options Options       `mapstructure:"options"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Options: Options{
			GenerateFragments: true,
		},
	}
}

// Load reads the configuration file at path. An empty path falls back
// to the QPDIFF_CONFIG environment variable, and when neither is set
// the defaults are returned without touching the filesystem.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("QPDIFF_CONFIG")
	}
	if path == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("options.generate_fragments", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// PlannerArgs renders the options as planner command-line flags.
func (o Options) PlannerArgs() []string {
	return []string{
		fmt.Sprintf("--generate-fragments=%t", o.GenerateFragments),
		fmt.Sprintf("--type-conditioned-fetching=%t", o.TypeConditionedFetching),
	}
}
