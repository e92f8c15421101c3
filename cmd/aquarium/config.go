package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"aquarium/internal/sim"
)

// Config holds the process configuration: the tank parameters plus
// the serving options that belong to the collaborators around the
// simulation core.
type Config struct {
	Addr   string  `toml:"addr"`
	TickHz float64 `toml:"tick_hz"`

	// Static is an optional directory of frontend assets served at /.
	Static string `toml:"static"`

	Tank sim.Config `toml:"tank"`
}

// DefaultConf are the default parameters.
func DefaultConf() *Config {
	return &Config{
		Addr:   ":8080",
		TickHz: 20,
		Tank:   sim.DefaultConfig(),
	}
}

// ParseConfig loads the TOML config file at path over the defaults.
// An empty path just returns the defaults.
func ParseConfig(path string) (*Config, error) {
	conf := DefaultConf()
	if path == "" {
		return conf, nil
	}
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if conf.TickHz <= 0 {
		return nil, fmt.Errorf("config %s: tick_hz must be positive, got %v", path, conf.TickHz)
	}
	return conf, nil
}
