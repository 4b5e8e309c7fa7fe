package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// defaultAcceptStatus is the only HTTP status accepted when no accept_status
// list is configured.
const defaultAcceptStatus = 200

// Load builds a Config from the current viper state. Viper must already
// have read the config file and bound environment variables (the cobra
// root command does this before any subcommand runs).
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}

	return &cfg, nil
}
