// Package config holds settings of a comparison run. Settings come from
// defaults, optionally overridden by a YAML file and then by command line flags.
package config

import (
	"os"

	"github.com/LdDl/mot-compare/compare"
	"github.com/LdDl/mot-compare/measurements"
	"github.com/LdDl/mot-compare/motion"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for configurations which can't be run
var ErrInvalid = errors.New("invalid configuration")

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the full configuration of a comparison
type Config struct {
	// Number of bins per feature dimension of motion models
	Bins int `yaml:"bins"`
	// Log2 score a best match must exceed
	Threshold float64 `yaml:"threshold"`
	// Label mapped to motion model index 0
	MinState int `yaml:"min_state"`
	// Column layout of measurement files
	Layout string `yaml:"layout"`
	// CSV field delimiter
	Comma string `yaml:"comma"`
	// Smooth trajectories with Kalman filter before building motion models
	Smooth bool                      `yaml:"smooth"`
	Kalman measurements.KalmanParams `yaml:"kalman"`
	// Mapping inference strategy: greedy or hungarian
	Mapping string `yaml:"mapping"`
	// Number of worst frames listed in the report
	WorstFrames int `yaml:"worst_frames"`
	// Report format: text or json
	Format string    `yaml:"format"`
	Log    LogConfig `yaml:"log"`
}

// Default returns configuration with the stock comparison parameters
func Default() *Config {
	return &Config{
		Bins:        motion.DefaultBins,
		Threshold:   compare.DefaultThreshold,
		MinState:    compare.DefaultMinState,
		Layout:      string(measurements.LayoutFeatures),
		Comma:       ",",
		Smooth:      false,
		Kalman:      measurements.DefaultKalmanParams(),
		Mapping:     string(compare.StrategyGreedy),
		WorstFrames: 10,
		Format:      "text",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads YAML file on top of defaults. Fields absent in the file keep default values
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read config '%s'", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "Can't parse config '%s'", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config '%s'", path)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations
func (cfg *Config) Validate() error {
	if cfg.Bins <= 0 {
		return errors.Wrapf(ErrInvalid, "bins must be positive, got %d", cfg.Bins)
	}
	if cfg.MinState > measurements.Unlabeled {
		return errors.Wrapf(ErrInvalid, "min_state must be <= %d, got %d", measurements.Unlabeled, cfg.MinState)
	}
	if _, err := measurements.ParseLayout(cfg.Layout); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if _, err := cfg.CommaRune(); err != nil {
		return err
	}
	if _, err := compare.ParseStrategy(cfg.Mapping); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if cfg.WorstFrames < 0 {
		return errors.Wrapf(ErrInvalid, "worst_frames can't be negative, got %d", cfg.WorstFrames)
	}
	if cfg.Format != "text" && cfg.Format != "json" {
		return errors.Wrapf(ErrInvalid, "format must be text or json, got '%s'", cfg.Format)
	}
	if cfg.Smooth && cfg.Kalman.Dt <= 0 {
		return errors.Wrapf(ErrInvalid, "kalman.dt must be positive, got %f", cfg.Kalman.Dt)
	}
	return nil
}

// CommaRune returns CSV delimiter as a rune. "\t" and "tab" mean tabulation
func (cfg *Config) CommaRune() (rune, error) {
	switch cfg.Comma {
	case "", ",":
		return ',', nil
	case "\\t", "\t", "tab":
		return '\t', nil
	}
	runes := []rune(cfg.Comma)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\n' || runes[0] == '\r' {
		return 0, errors.Wrapf(ErrInvalid, "bad comma '%s'", cfg.Comma)
	}
	return runes[0], nil
}

// Options converts configuration into comparison options
func (cfg *Config) Options() (compare.Options, error) {
	strategy, err := compare.ParseStrategy(cfg.Mapping)
	if err != nil {
		return compare.Options{}, err
	}
	return compare.Options{
		MinState:  cfg.MinState,
		Threshold: cfg.Threshold,
		Strategy:  strategy,
	}, nil
}
