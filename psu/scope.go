package psu

import (
	"context"
	"errors"

	"github.com/arloliu/go-scpi/instrument"
	"github.com/arloliu/go-scpi/transport"
)

// Options configures a scoped supply session.
type Options struct {
	Serial string
	// Meter, when set, is applied first.
	Meter *MeterConfig
	// Output, when set, is applied after Meter.
	Output *OutputConfig
	// Enable switches the output on once Output is applied.
	Enable bool
	// Session options, e.g. instrument.WithLogger.
	Session []instrument.Option
}

// Use opens the supply, applies opts, and runs fn. On every exit path,
// including a panic in fn, the supply is torn down: one error queue record
// is logged, presets and status are cleared and the session is closed.
// Teardown errors are joined to the error returned by fn.
func Use(ctx context.Context, dir transport.Directory, opts Options, fn func(*Supply) error) (err error) {
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

	if opts.Meter != nil {
		if err := s.ConfigureMeter(*opts.Meter); err != nil {
			return err
		}
	}
	if opts.Output != nil {
		if err := s.ConfigureOutput(*opts.Output); err != nil {
			return err
		}
		if opts.Enable {
			if err := s.EnableOutput(); err != nil {
				return err
			}
		}
	}

	return fn(s)
}

func (s *Supply) teardown() error {
	if !s.IsOpen() {
		return nil
	}

	var errs []error
	if rec, err := s.SystemError(); err != nil {
		errs = append(errs, err)
	} else if rec.IsError() {
		s.Logger().Info("instrument error queue", "error", rec.String())
	}

	errs = append(errs, s.ClearPresets(), s.ClearStatus(), s.Close())

	return errors.Join(errs...)
}
