package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SolverConfig overrides the per-size production defaults when non-zero.
type SolverConfig struct {
	PopSize   int     `yaml:"pop_size"`
	EliteFrac float64 `yaml:"elite_frac"`
	MaxIters  int     `yaml:"max_iters"`
}

// Config is the server configuration. Flags override file values.
type Config struct {
	Addr     string       `yaml:"addr"`
	DataDir  string       `yaml:"data_dir"`
	LogLevel string       `yaml:"log_level"`
	DelayMs  int          `yaml:"delay_ms"` // default pacing between streamed events
	Solver   SolverConfig `yaml:"solver"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:     ":8080",
		DataDir:  "./data",
		LogLevel: "info",
		DelayMs:  50,
	}
}

// Load reads a YAML config file on top of the defaults. A missing file is
// not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
