package spellcheck

import (
	"github.com/utkarsh5026/spellq/dispatch"
	"github.com/utkarsh5026/spellq/engine"
	"github.com/utkarsh5026/spellq/engine/wordlist"
	"github.com/utkarsh5026/spellq/pool"
	"go.uber.org/zap"
)

// Option configures a Runtime.
type Option func(*runtimeConfig)

type runtimeConfig struct {
	factory  engine.Factory
	poolOpts []pool.Option
	loop     *dispatch.Loop
	logger   *zap.Logger
}

func newRuntimeConfig(opts ...Option) *runtimeConfig {
	cfg := &runtimeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.factory == nil {
		cfg.factory = wordlist.Factory()
	}
	if cfg.loop == nil {
		cfg.loop = dispatch.New()
	}
	if cfg.logger == nil {
		cfg.logger = Logger()
	}
	return cfg
}

// WithEngineFactory sets how each Spellchecker gets its engine.
// The default is a word-list engine searching the system dictionary paths.
func WithEngineFactory(f engine.Factory) Option {
	return func(cfg *runtimeConfig) {
		if f != nil {
			cfg.factory = f
		}
	}
}

// WithPoolOptions passes options to the worker pool.
func WithPoolOptions(opts ...pool.Option) Option {
	return func(cfg *runtimeConfig) {
		cfg.poolOpts = append(cfg.poolOpts, opts...)
	}
}

// WithLoop delivers completions through an existing loop instead of a new one.
func WithLoop(l *dispatch.Loop) Option {
	return func(cfg *runtimeConfig) {
		if l != nil {
			cfg.loop = l
		}
	}
}

// WithLogger sets the logger of the runtime and, unless WithPoolOptions
// sets one, of its pool.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *runtimeConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}
