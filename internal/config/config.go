// Package config provides configuration management for the ROI simulator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"

	"roi-simulator/internal/errors"
	"roi-simulator/internal/logging"
	"roi-simulator/internal/models"
	"roi-simulator/internal/scenario"
)

// Config holds all application configuration.
type Config struct {
	Simulation SimulationConfig    `mapstructure:"simulation" json:"simulation"`
	Market     models.MarketConfig `mapstructure:"market" json:"market"`
	Server     ServerConfig        `mapstructure:"server" json:"server"`
	Logging    logging.LogConfig   `mapstructure:"logging" json:"logging"`
}

// SimulationConfig holds the projection policy.
type SimulationConfig struct {
	Offsets           []int   `mapstructure:"offsets" json:"offsets"`
	MinYearsRemaining float64 `mapstructure:"min_years_remaining" json:"min_years_remaining"`
	CrushThreshold    float64 `mapstructure:"crush_threshold" json:"crush_threshold"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" json:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" json:"allowed_origins"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/roi-simulator"
	}
	return filepath.Join(home, ".config", "roi-simulator")
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	policy := scenario.DefaultPolicy()
	return &Config{
		Simulation: SimulationConfig{
			Offsets:           policy.Offsets,
			MinYearsRemaining: policy.MinYearsRemaining,
			CrushThreshold:    policy.CrushThreshold,
		},
		Market: models.MarketConfig{
			CurrentPrice: 340,
			TargetPrice:  360,
			RiskFreeRate: 0.045,
			DaysToExpiry: 365,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Logging: logging.DefaultLogConfig(),
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is replaced with a template and defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.NewConfigError("config.toml", "reading file", err)
		}
		// Best effort: a read-only home should not stop a simulation.
		_, _ = createTemplateConfig(configDir)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("config.toml", "decoding", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("simulation.offsets", d.Simulation.Offsets)
	v.SetDefault("simulation.min_years_remaining", d.Simulation.MinYearsRemaining)
	v.SetDefault("simulation.crush_threshold", d.Simulation.CrushThreshold)

	v.SetDefault("market.current_price", d.Market.CurrentPrice)
	v.SetDefault("market.target_price", d.Market.TargetPrice)
	v.SetDefault("market.risk_free_rate", d.Market.RiskFreeRate)
	v.SetDefault("market.days_to_expiry", d.Market.DaysToExpiry)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.console", d.Logging.Console)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.file_path", d.Logging.FilePath)
	v.SetDefault("logging.max_size", d.Logging.MaxSize)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age", d.Logging.MaxAge)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("ROISIM_RISK_FREE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.NewConfigError("ROISIM_RISK_FREE_RATE", "not a number", err)
		}
		cfg.Market.RiskFreeRate = rate
	}

	if v := os.Getenv("ROISIM_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	if v := os.Getenv("ROISIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Simulation.Offsets) == 0 {
		return errors.NewConfigError("simulation.offsets", "must list at least one offset", nil)
	}
	prev := 0
	for _, d := range c.Simulation.Offsets {
		if d <= prev {
			return errors.NewConfigError("simulation.offsets", "must be positive and strictly ascending", nil)
		}
		prev = d
	}

	if !(c.Simulation.MinYearsRemaining > 0) {
		return errors.NewConfigError("simulation.min_years_remaining", "must be positive", nil)
	}
	if c.Simulation.CrushThreshold < 0 {
		return errors.NewConfigError("simulation.crush_threshold", "must be non-negative", nil)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.NewConfigError("logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level), nil)
	}

	return nil
}

// Policy converts the simulation section into a projection policy.
func (c *Config) Policy() scenario.Policy {
	offsets := make([]int, len(c.Simulation.Offsets))
	copy(offsets, c.Simulation.Offsets)
	return scenario.Policy{
		Offsets:           offsets,
		MinYearsRemaining: c.Simulation.MinYearsRemaining,
		CrushThreshold:    c.Simulation.CrushThreshold,
	}
}
