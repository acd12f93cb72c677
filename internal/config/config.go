// Package config provides configuration management for the pricer.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"crr-pricer/internal/errors"
	"crr-pricer/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Model  ModelConfig  `mapstructure:"model"`
	Option OptionConfig `mapstructure:"option"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// ModelConfig holds the underlying asset and its time discretization.
type ModelConfig struct {
	Spot         float64 `mapstructure:"spot"`
	Rate         float64 `mapstructure:"rate"`
	Sigma        float64 `mapstructure:"sigma"`
	StepsPerYear int     `mapstructure:"steps_per_year"`
	Horizon      float64 `mapstructure:"horizon"` // years
}

// OptionConfig holds the contracts to price.
type OptionConfig struct {
	Strike   float64  `mapstructure:"strike"`
	Maturity float64  `mapstructure:"maturity"` // years
	Styles   []string `mapstructure:"styles"`   // european, american
	Kinds    []string `mapstructure:"kinds"`    // call, put
}

// OutputConfig holds presentation settings.
type OutputConfig struct {
	Precision        int  `mapstructure:"precision"`
	ShowMatrices     bool `mapstructure:"show_matrices"`
	MaxMatrixRows    int  `mapstructure:"max_matrix_rows"`
	CompareBenchmark bool `mapstructure:"compare_benchmark"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       bool   `mapstructure:"file"`
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/crr-pricer"
	}
	return filepath.Join(home, ".config", "crr-pricer")
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	cfg := &Config{}
	// defaults are plain values and always decode
	_ = newViper("").Unmarshal(cfg)
	return cfg
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is created from the template and the defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := newViper(configDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("creating config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config.toml: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func newViper(configDir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}

	v.SetDefault("model.spot", 100.0)
	v.SetDefault("model.rate", 0.04)
	v.SetDefault("model.sigma", 0.25)
	v.SetDefault("model.steps_per_year", 15)
	v.SetDefault("model.horizon", 2.0)

	v.SetDefault("option.strike", 90.0)
	v.SetDefault("option.maturity", 2.0)
	v.SetDefault("option.styles", []string{"european", "american"})
	v.SetDefault("option.kinds", []string{"call", "put"})

	v.SetDefault("output.precision", 4)
	v.SetDefault("output.show_matrices", false)
	v.SetDefault("output.max_matrix_rows", 12)
	v.SetDefault("output.compare_benchmark", true)

	logDefaults := logging.DefaultLogConfig()
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.file", logDefaults.File)
	v.SetDefault("log.path", logDefaults.FilePath)
	v.SetDefault("log.max_size", logDefaults.MaxSize)
	v.SetDefault("log.max_backups", logDefaults.MaxBackups)
	v.SetDefault("log.max_age", logDefaults.MaxAge)
	return v
}

func applyEnvOverrides(cfg *Config) error {
	floats := []struct {
		env    string
		target *float64
	}{
		{"CRR_SPOT", &cfg.Model.Spot},
		{"CRR_RATE", &cfg.Model.Rate},
		{"CRR_SIGMA", &cfg.Model.Sigma},
		{"CRR_HORIZON", &cfg.Model.Horizon},
		{"CRR_STRIKE", &cfg.Option.Strike},
		{"CRR_MATURITY", &cfg.Option.Maturity},
	}
	for _, f := range floats {
		s := os.Getenv(f.env)
		if s == "" {
			continue
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.NewValidationError(f.env, s, "not a number", errors.ErrConfigInvalid)
		}
		*f.target = val
	}

	if s := os.Getenv("CRR_STEPS_PER_YEAR"); s != "" {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.NewValidationError("CRR_STEPS_PER_YEAR", s, "not an integer", errors.ErrConfigInvalid)
		}
		cfg.Model.StepsPerYear = n
	}

	if v := os.Getenv("CRR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}, msg string) error {
		return errors.NewValidationError(field, value, msg, errors.ErrConfigInvalid)
	}

	if c.Model.Spot <= 0 {
		return invalid("model.spot", c.Model.Spot, "must be positive")
	}
	if c.Model.Sigma <= 0 {
		return invalid("model.sigma", c.Model.Sigma, "must be positive")
	}
	if c.Model.Horizon <= 0 {
		return invalid("model.horizon", c.Model.Horizon, "must be positive")
	}
	if c.Model.StepsPerYear <= 0 {
		return invalid("model.steps_per_year", c.Model.StepsPerYear, "must be positive")
	}
	if c.Option.Strike < 0 {
		return invalid("option.strike", c.Option.Strike, "must be non-negative")
	}
	if c.Option.Maturity <= 0 {
		return invalid("option.maturity", c.Option.Maturity, "must be positive")
	}
	if c.OptionSteps() > c.LatticeSteps() {
		return invalid("option.maturity", c.Option.Maturity, "option outlives the lattice horizon")
	}
	if c.Output.Precision < 0 || c.Output.Precision > 12 {
		return invalid("output.precision", c.Output.Precision, "must be between 0 and 12")
	}
	return nil
}

// LatticeSteps is the number of lattice steps covering the horizon.
func (c *Config) LatticeSteps() int {
	return stepsFor(c.Model.StepsPerYear, c.Model.Horizon)
}

// OptionSteps is the number of lattice steps covering the option's life.
func (c *Config) OptionSteps() int {
	return stepsFor(c.Model.StepsPerYear, c.Option.Maturity)
}

// stepsFor rounds up so the discretization covers the full period.
func stepsFor(perYear int, years float64) int {
	// absorb representation error such as 10*0.3 = 3.0000000000000004
	return int(math.Ceil(float64(perYear)*years - 1e-9))
}

// LoggingConfig converts the log section for the logging package.
func (c *Config) LoggingConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Log.Level,
		Console:    true,
		File:       c.Log.File,
		FilePath:   c.Log.Path,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
	}
}
