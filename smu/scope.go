package smu

import (
	"context"
	"errors"
	"fmt"

	"github.com/arloliu/go-scpi/instrument"
	"github.com/arloliu/go-scpi/scpi"
	"github.com/arloliu/go-scpi/transport"
)

// ChannelConfig is the configuration applied to one channel when a scoped
// session starts.
type ChannelConfig struct {
	Channel scpi.Channel
	Mode    scpi.SourceMode
	// Level is in V for SVMI and in A for SIMV.
	Level float64
	// VoltageRange and CurrentRange are set as a pair before the level when
	// both are non-zero.
	VoltageRange scpi.SMUVoltageRange
	CurrentRange scpi.SMUCurrentRange
	// Limit is the compliance of the measured quantity. Zero leaves the
	// instrument setting untouched.
	Limit float64
	// Enable switches the output on after the level is set.
	Enable bool
}

// Validate checks every option and bound without touching the instrument.
func (c ChannelConfig) Validate() error {
	if err := scpi.CheckOptions(c.Channel, c.Mode); err != nil {
		return err
	}
	if c.VoltageRange != 0 || c.CurrentRange != 0 {
		if err := scpi.CheckOptions(c.VoltageRange, c.CurrentRange); err != nil {
			return err
		}
	}
	if _, err := limitsOf(c.Mode.Sourced()).Check("source "+quantityName(c.Mode.Sourced()), c.Level); err != nil {
		return err
	}
	if c.Limit != 0 {
		if _, err := limitsOf(c.Mode.Measured()).Check(quantityName(c.Mode.Measured())+" limit", c.Limit); err != nil {
			return err
		}
	}

	return nil
}

// Options configures a scoped SMU session.
type Options struct {
	Serial string
	// Channels holds at most one configuration per channel.
	Channels []ChannelConfig
	Session  []instrument.Option
}

func (o Options) validate() error {
	if len(o.Channels) > len(scpi.ChannelValues()) {
		return fmt.Errorf("%w: %d channel configurations", scpi.ErrInvalidOption, len(o.Channels))
	}

	seen := make(map[scpi.Channel]bool, len(o.Channels))
	for _, c := range o.Channels {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.Channel] {
			return fmt.Errorf("%w: channel %s configured twice", scpi.ErrInvalidOption, c.Channel)
		}
		seen[c.Channel] = true
	}

	return nil
}

// Configure applies c to its channel.
func (s *SMU) Configure(c ChannelConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.VoltageRange != 0 {
		if err := s.SetRanges(c.Channel, c.VoltageRange, c.CurrentRange); err != nil {
			return err
		}
	}
	if c.Limit != 0 {
		if err := s.limit(c.Channel, c.Mode.Measured(), c.Limit); err != nil {
			return err
		}
	}
	if err := s.source(c.Channel, c.Mode.Sourced(), c.Level); err != nil {
		return err
	}
	s.Logger().Info("smu channel configured", "channel", c.Channel, "mode", c.Mode, "level", c.Level)

	if c.Enable {
		return s.EnableChannel(c.Channel)
	}

	return nil
}

// Use opens the SMU, validates and applies the channel configurations, and
// runs fn. On every exit path, including a panic in fn, all three channels are
// switched off before presets and status are cleared and the session is
// closed. Teardown errors are joined to the error returned by fn.
func Use(ctx context.Context, dir transport.Directory, opts Options, fn func(*SMU) error) (err error) {
	if err := opts.validate(); err != nil {
		return err
	}

	s, err := Open(ctx, dir, opts.Serial, opts.Session...)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = s.teardown()
			panic(r)
		}
		err = errors.Join(err, s.teardown())
	}()

	for _, c := range opts.Channels {
		if err := s.Configure(c); err != nil {
			return err
		}
	}

	return fn(s)
}

func (s *SMU) teardown() error {
	if !s.IsOpen() {
		return nil
	}

	var errs []error
	if rec, err := s.SystemError(); err != nil {
		errs = append(errs, err)
	} else if rec.IsError() {
		s.Logger().Info("instrument error queue", "error", rec.String())
	}

	for _, ch := range scpi.ChannelValues() {
		errs = append(errs, s.DisableChannel(ch))
	}
	errs = append(errs, s.ClearPresets(), s.ClearStatus(), s.Close())

	return errors.Join(errs...)
}
