// Package config loads the cookbook configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/on-the-ground/effect_ive_cookbook/effects/duration"
	"gopkg.in/yaml.v3"
)

// Config is the cookbook configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Handlers HandlersConfig `yaml:"handlers"`
	Recipes  RecipesConfig  `yaml:"recipes"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// HandlersConfig sizes the effect handlers installed for a run.
type HandlersConfig struct {
	LogBufferSize         int `yaml:"log_buffer_size"`
	ConcurrencyBufferSize int `yaml:"concurrency_buffer_size"`
	ServiceBufferSize     int `yaml:"service_buffer_size"`
	ServiceWorkers        int `yaml:"service_workers"`
}

type RecipesConfig struct {
	Interruption InterruptionConfig `yaml:"interruption"`
	Race         RaceConfig         `yaml:"race"`
	Retry        RetryConfig        `yaml:"retry"`
	Service      ServiceConfig      `yaml:"service"`
}

type InterruptionConfig struct {
	// Fiber n sleeps n units.
	Unit   duration.Duration `yaml:"unit"`
	Fibers int               `yaml:"fibers"`
}

type RaceConfig struct {
	Delays []duration.Duration `yaml:"delays"`
}

type RetryConfig struct {
	Recurs int               `yaml:"recurs"`
	Delay  duration.Duration `yaml:"delay"`
}

type ServiceConfig struct {
	WithRandom bool   `yaml:"with_random"`
	Seed       uint64 `yaml:"seed"`
}

// DefaultConfig returns the configuration the recipes were written for.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Handlers: HandlersConfig{
			LogBufferSize:         64,
			ConcurrencyBufferSize: 8,
			ServiceBufferSize:     8,
			ServiceWorkers:        2,
		},
		Recipes: RecipesConfig{
			Interruption: InterruptionConfig{
				Unit:   duration.Seconds(1),
				Fibers: 3,
			},
			Race: RaceConfig{
				Delays: []duration.Duration{
					duration.Millis(100),
					duration.Millis(200),
					duration.Millis(300),
				},
			},
			Retry: RetryConfig{
				Recurs: 2,
				Delay:  duration.Millis(100),
			},
		},
	}
}

// Load reads path over the defaults. An empty or missing path yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the values the recipes cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Recipes.Interruption.Fibers < 1 {
		errs = append(errs, fmt.Errorf("%w: recipes.interruption.fibers must be positive", ErrInvalidConfig))
	}
	if len(c.Recipes.Race.Delays) != 3 {
		errs = append(errs, fmt.Errorf("%w: recipes.race.delays needs one delay per task (3)", ErrInvalidConfig))
	}
	if c.Recipes.Retry.Recurs < 0 {
		errs = append(errs, fmt.Errorf("%w: recipes.retry.recurs must not be negative", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}
