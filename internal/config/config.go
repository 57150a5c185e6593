// Package config loads the YAML configuration of the spellq command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/utkarsh5026/spellq/engine/wordlist"
	"github.com/utkarsh5026/spellq/pool"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the on-disk configuration. Zero fields take their defaults.
type Config struct {
	Workers         int           `yaml:"workers"`
	QueueCapacity   int           `yaml:"queue_capacity"`
	RateLimit       RateLimit     `yaml:"rate_limit"`
	PinWorkers      bool          `yaml:"pin_workers"`
	Language        string        `yaml:"language"`
	DictionaryDirs  []string      `yaml:"dictionary_dirs"`
	MaxSuggestions  int           `yaml:"max_suggestions"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RateLimit caps how many engine calls start per second across all workers.
// A zero TasksPerSecond disables limiting.
type RateLimit struct {
	TasksPerSecond float64 `yaml:"tasks_per_second"`
	Burst          int     `yaml:"burst"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Workers:         runtime.GOMAXPROCS(0),
		QueueCapacity:   64,
		Language:        "en_US",
		DictionaryDirs:  wordlist.DefaultDictionaryDirs(),
		MaxSuggestions:  10,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads path and applies it over Default. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg and validates the result. Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	case c.QueueCapacity < 1:
		return fmt.Errorf("%w: queue_capacity must be at least 1, got %d", ErrInvalid, c.QueueCapacity)
	case c.RateLimit.TasksPerSecond < 0:
		return fmt.Errorf("%w: rate_limit.tasks_per_second must not be negative", ErrInvalid)
	case c.RateLimit.TasksPerSecond > 0 && c.RateLimit.Burst < 1:
		return fmt.Errorf("%w: rate_limit.burst must be at least 1 when limiting", ErrInvalid)
	case c.MaxSuggestions < 1:
		return fmt.Errorf("%w: max_suggestions must be at least 1, got %d", ErrInvalid, c.MaxSuggestions)
	case c.ShutdownTimeout < 0:
		return fmt.Errorf("%w: shutdown_timeout must not be negative", ErrInvalid)
	}
	return nil
}

// PoolOptions translates the pool settings into pool options.
func (c *Config) PoolOptions() []pool.Option {
	opts := []pool.Option{
		pool.WithWorkerCount(c.Workers),
		pool.WithTaskBuffer(c.QueueCapacity),
		pool.WithCPUAffinity(c.PinWorkers),
	}
	if c.RateLimit.TasksPerSecond > 0 {
		opts = append(opts, pool.WithRateLimit(c.RateLimit.TasksPerSecond, c.RateLimit.Burst))
	}
	return opts
}

// EngineOptions translates the dictionary settings into word-list engine options.
func (c *Config) EngineOptions() []wordlist.Option {
	return []wordlist.Option{
		wordlist.WithDictionaryDirs(c.DictionaryDirs...),
		wordlist.WithMaxSuggestions(c.MaxSuggestions),
	}
}
