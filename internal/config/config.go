// Package config provides configuration loading for the simulator.
// Values come from defaults, then an optional YAML file, then MARKOV_* environment variables.
// CLI flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "MARKOV_"

// Config contains all simulator settings.
type Config struct {
	Model      ModelConfig      `yaml:"model" envPrefix:"MODEL_"`
	Simulation SimulationConfig `yaml:"simulation" envPrefix:"SIM_"`
	Logging    LoggingConfig    `yaml:"logging" envPrefix:"LOG_"`
	Redis      RedisConfig      `yaml:"redis" envPrefix:"REDIS_"`
	Server     ServerConfig     `yaml:"server" envPrefix:"SERVER_"`
}

// ModelConfig selects the transition model.
type ModelConfig struct {
	// Path to a .csv, .yaml, .json or .xlsx model. Empty or missing falls back to the stock model.
	Path string `yaml:"path" env:"PATH"`

	// Name selects a model stored in Redis; it takes precedence over Path when Redis is configured.
	Name string `yaml:"name" env:"NAME"`
}

// SimulationConfig configures cohort runs.
type SimulationConfig struct {
	// Steps is the horizon. Zero uses the model document's steps, or the default of 60.
	Steps    int `yaml:"steps" env:"STEPS"`
	Patients int `yaml:"patients" env:"PATIENTS"`

	// Start is a state label or index.
	Start string `yaml:"start" env:"START"`

	// Seed makes runs reproducible. Empty means a random seed.
	Seed string `yaml:"seed" env:"SEED"`

	Workers int `yaml:"workers" env:"WORKERS"`

	// PatientData is a patient CSV; when set, start states are drawn from its
	// glucose-based state distribution instead of Start.
	PatientData string `yaml:"patient_data" env:"PATIENT_DATA"`
}

// LoggingConfig configures the operational logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level" env:"LEVEL"`
}

// RedisConfig points at a Redis model registry. Empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	Prefix   string `yaml:"prefix" env:"PREFIX"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`

	// MaxPatients caps the cohort size of a single request.
	MaxPatients int `yaml:"max_patients" env:"MAX_PATIENTS"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Patients: 1000,
			Start:    "0",
			Workers:  1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Redis: RedisConfig{
			Prefix: "markov:model:",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxPatients: 1_000_000,
		},
	}
}

// Load builds the configuration: defaults -> file at path (if it exists) -> environment.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Simulation.Steps < 0 {
		return fmt.Errorf("simulation.steps must not be negative, got %d", c.Simulation.Steps)
	}
	if c.Simulation.Patients <= 0 {
		return fmt.Errorf("simulation.patients must be positive, got %d", c.Simulation.Patients)
	}
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("simulation.workers must be at least 1, got %d", c.Simulation.Workers)
	}
	if _, _, err := c.Simulation.SeedValue(); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Logging.Level != "" && !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	return nil
}

// SeedValue parses Seed. ok is false when no seed is configured.
func (s SimulationConfig) SeedValue() (seed uint64, ok bool, err error) {
	if strings.TrimSpace(s.Seed) == "" {
		return 0, false, nil
	}
	seed, err = strconv.ParseUint(strings.TrimSpace(s.Seed), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid seed %q: %w", s.Seed, err)
	}
	return seed, true, nil
}

// ResolveStart maps Start (a label or an index) onto a state of m.
func (s SimulationConfig) ResolveStart(m *domain.Model) (int, error) {
	start := strings.TrimSpace(s.Start)
	if start == "" {
		return 0, nil
	}
	if idx, ok := m.Index(start); ok {
		return idx, nil
	}
	idx, err := strconv.Atoi(start)
	if err != nil {
		return 0, fmt.Errorf("%w: unknown start state %q", domain.ErrInvalidState, start)
	}
	if err := m.ValidateState(idx); err != nil {
		return 0, err
	}
	return idx, nil
}
