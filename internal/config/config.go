// Package config loads the optional mkc.yaml/mkc.json project
// configuration file (SPEC_FULL.md §4.11): the source base directory
// imports resolve against, the default output file extension, and
// whether color output is forced on or off. Grounded on the teacher's
// internal/cli/config/config.go viper setup, narrowed to mkc's three
// settings. Absence of a config file is not an error — built-in
// defaults apply, and CLI flags always win over both.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is mkc's project configuration.
type Config struct {
	BaseDir         string `mapstructure:"base_dir"`
	OutputExtension string `mapstructure:"output_extension"`
	ForceColor      string `mapstructure:"force_color"`
}

// defaults mirror spec.md's built-in CLI behavior when no config file
// and no flags are present.
func defaults() Config {
	return Config{
		BaseDir:         ".",
		OutputExtension: ".js",
		ForceColor:      "auto",
	}
}

// Load reads mkc.yaml/mkc.json from the current directory (or MKC_*
// environment variables), falling back to built-in defaults when no
// config file exists. A malformed config file is an error; a missing
// one is not.
func Load() (*Config, error) {
	v := viper.New()

	d := defaults()
	v.SetDefault("base_dir", d.BaseDir)
	v.SetDefault("output_extension", d.OutputExtension)
	v.SetDefault("force_color", d.ForceColor)

	v.SetConfigName("mkc")
	v.AddConfigPath(".")
	v.SetEnvPrefix("MKC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read mkc config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mkc config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.ForceColor {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("force_color must be one of auto, on, off; got %q", cfg.ForceColor)
	}
	if cfg.OutputExtension == "" {
		return fmt.Errorf("output_extension must not be empty")
	}
	return nil
}

// Merge applies flag overrides on top of cfg, per spec.md's precedence:
// CLI flags beat config file values. A zero-value override string
// means "flag not set" — the config value (or its own default) stands.
func (c *Config) Merge(baseDirFlag, outputExtFlag, forceColorFlag string) Config {
	merged := *c
	if baseDirFlag != "" {
		merged.BaseDir = baseDirFlag
	}
	if outputExtFlag != "" {
		merged.OutputExtension = outputExtFlag
	}
	if forceColorFlag != "" {
		merged.ForceColor = forceColorFlag
	}
	return merged
}
