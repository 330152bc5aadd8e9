package instrument

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/go-scpi/logger"
	"github.com/arloliu/go-scpi/trace"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultBusPrefix = "USB"

	MinTimeout = 1 * time.Second
	MaxTimeout = 10 * time.Minute
)

// Config holds the session settings.
type Config struct {
	timeout   time.Duration
	busPrefix string
	logger    logger.Logger
	recorder  trace.Recorder
}

// NewConfig creates a session configuration. Options are applied in order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		timeout:   DefaultTimeout,
		busPrefix: DefaultBusPrefix,
		logger:    logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Timeout returns the per-operation transport timeout.
func (cfg *Config) Timeout() time.Duration { return cfg.timeout }

// BusPrefix returns the address prefix an endpoint must carry to be considered.
func (cfg *Config) BusPrefix() string { return cfg.busPrefix }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Recorder returns the trace recorder, or nil when tracing is off.
func (cfg *Config) Recorder() trace.Recorder { return cfg.recorder }

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithTimeout sets the transport timeout applied to every write and query.
// Must be in [1s, 10m].
func WithTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinTimeout || d > MaxTimeout {
			return fmt.Errorf("instrument: timeout %v out of range [%v, %v]", d, MinTimeout, MaxTimeout)
		}
		cfg.timeout = d

		return nil
	})
}

// WithBusPrefix sets the address prefix used to select candidate endpoints.
func WithBusPrefix(prefix string) Option {
	return optFunc(func(cfg *Config) error {
		if strings.TrimSpace(prefix) == "" {
			return errors.New("instrument: bus prefix must not be empty")
		}
		cfg.busPrefix = prefix

		return nil
	})
}

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("instrument: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}

// WithTracer records every transport operation of the session to rec.
func WithTracer(rec trace.Recorder) Option {
	return optFunc(func(cfg *Config) error {
		cfg.recorder = rec
		return nil
	})
}
