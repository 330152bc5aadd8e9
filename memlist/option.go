package memlist

import (
	"math"

	"github.com/arloliu/go-scpi/scpi"
)

// Defaults applied by the program generators.
const (
	DefaultSlot         = scpi.Mem1
	DefaultVoltageRange = scpi.R20V
	DefaultCurrentRange = scpi.R120mA
	DefaultMeasureCount = 1
	DefaultLoops        = 1

	// DefaultCurrentLimit is the compliance limit, in A, of voltage sourcing programs.
	DefaultCurrentLimit = 0.1
	// DefaultVoltageLimit is the compliance limit, in V, of current sourcing programs.
	DefaultVoltageLimit = 5.0
	// DefaultPulseVoltageLimit is the voltage compliance limit of pulse programs.
	DefaultPulseVoltageLimit = 20.0
	// DefaultPulseCurrentLimit is the current compliance limit of pulse programs.
	DefaultPulseCurrentLimit = 0.1
)

type config struct {
	slot         scpi.MemorySlot
	voltageRange scpi.SMUVoltageRange
	currentRange scpi.SMUCurrentRange
	measureCount int
	measureDelay float64 // ms, zero for none
	loops        int
	voltageLimit float64
	currentLimit float64
}

// Option configures a program generator.
type Option interface {
	apply(*config) error
}

type optFunc func(*config) error

func (f optFunc) apply(cfg *config) error { return f(cfg) }

func newConfig(voltageLimit, currentLimit float64, opts []Option) (*config, error) {
	cfg := &config{
		slot:         DefaultSlot,
		voltageRange: DefaultVoltageRange,
		currentRange: DefaultCurrentRange,
		measureCount: DefaultMeasureCount,
		loops:        DefaultLoops,
		voltageLimit: voltageLimit,
		currentLimit: currentLimit,
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// WithSlot selects the memory slot the program is stored in.
func WithSlot(slot scpi.MemorySlot) Option {
	return optFunc(func(cfg *config) error {
		if err := scpi.CheckOptions(slot); err != nil {
			return err
		}
		cfg.slot = slot

		return nil
	})
}

// WithRanges sets the voltage and current ranges applied by the program.
func WithRanges(v scpi.SMUVoltageRange, i scpi.SMUCurrentRange) Option {
	return optFunc(func(cfg *config) error {
		if err := scpi.CheckOptions(v, i); err != nil {
			return err
		}
		cfg.voltageRange, cfg.currentRange = v, i

		return nil
	})
}

// WithMeasureCount sets how many readings a source-and-measure program takes.
func WithMeasureCount(n int) Option {
	return optFunc(func(cfg *config) error {
		n, err := scpi.ValidateInt("measure count", n, 1, math.MaxInt32)
		if err != nil {
			return err
		}
		cfg.measureCount = n

		return nil
	})
}

// WithMeasureDelay inserts a settling delay of ms milliseconds before the
// readings of a source-and-measure program. Zero disables it.
func WithMeasureDelay(ms float64) Option {
	return optFunc(func(cfg *config) error {
		ms, err := scpi.SMUDelayLimits.Check("measure delay (ms)", ms)
		if err != nil {
			return err
		}
		cfg.measureDelay = ms

		return nil
	})
}

// WithLoops sets how many times a pulse program repeats.
func WithLoops(n int) Option {
	return optFunc(func(cfg *config) error {
		n, err := scpi.SMUPulseLoopsLimits.Check("pulse loops", n)
		if err != nil {
			return err
		}
		cfg.loops = n

		return nil
	})
}

// WithVoltageLimit overrides the voltage compliance limit.
func WithVoltageLimit(v float64) Option {
	return optFunc(func(cfg *config) error {
		v, err := scpi.SMUVoltageLimits.Check("voltage limit", v)
		if err != nil {
			return err
		}
		cfg.voltageLimit = v

		return nil
	})
}

// WithCurrentLimit overrides the current compliance limit.
func WithCurrentLimit(v float64) Option {
	return optFunc(func(cfg *config) error {
		v, err := scpi.SMUCurrentLimits.Check("current limit", v)
		if err != nil {
			return err
		}
		cfg.currentLimit = v

		return nil
	})
}
