package psu

import (
	"context"
	"sync"
	"time"

	"github.com/arloliu/go-scpi/instrument"
	"github.com/arloliu/go-scpi/scpi"
	"github.com/arloliu/go-scpi/transport"
)

const (
	// Model is the token the U3606 reports in its identification string.
	Model = "U3606"
	// DefaultTimeout is the transport timeout of a supply session.
	DefaultTimeout = 10 * time.Second
)

// State is the last configuration successfully written to the supply. It is
// a record of what was sent, not a reading; query the instrument for live
// values.
type State struct {
	// OutputMode is zero until an output configuration or setpoint is written.
	OutputMode    scpi.OutputMode
	OutputLevel   float64
	OutputEnabled bool
	// MeterMode is zero until the multimeter is configured.
	MeterMode  scpi.MeasureMode
	SignalType scpi.SignalType
	Continuous bool
	Calc       bool
	Logging    bool
}

// Supply is an open session to a U3606.
//
// The embedded Session exposes the raw Write and Query commands and the
// IEEE-488.2 common commands.
type Supply struct {
	*instrument.Session

	mu    sync.Mutex
	state State
}

// Open opens the U3606 with the given serial number found in dir.
func Open(ctx context.Context, dir transport.Directory, serial string, opts ...instrument.Option) (*Supply, error) {
	opts = append([]instrument.Option{instrument.WithTimeout(DefaultTimeout)}, opts...)

	sess, err := instrument.Open(ctx, dir, serial, Model, opts...)
	if err != nil {
		return nil, err
	}

	return &Supply{Session: sess}, nil
}

// State returns a copy of the shadow state.
func (s *Supply) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Supply) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
}

// writeAll sends cmds in order, stopping at the first failure.
func (s *Supply) writeAll(cmds ...string) error {
	for _, cmd := range cmds {
		if err := s.Write(cmd); err != nil {
			return err
		}
	}

	return nil
}

// offIfEnabled switches the output off when it is believed to be on. The
// firmware ignores some setpoint writes on a live output.
func (s *Supply) offIfEnabled() error {
	if !s.State().OutputEnabled {
		return nil
	}

	return s.DisableOutput()
}

// ConfigureOutput disables the output and applies cfg. The output stays
// disabled.
func (s *Supply) ConfigureOutput(cfg OutputConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.DisableOutput(); err != nil {
		return err
	}

	var cmds []string
	if cfg.Mode == scpi.ConstantVoltage {
		cmds = []string{
			scpi.SourceLevel(scpi.ConstantVoltage, cfg.Level),
			scpi.CurrentLimit(cfg.CurrentLimit),
			scpi.SetVoltageRange(cfg.VoltageRange),
		}
	} else {
		cmds = []string{
			scpi.SourceLevel(scpi.ConstantCurrent, cfg.Level),
			scpi.VoltageLimit(cfg.VoltageLimit),
			scpi.SetCurrentRange(cfg.CurrentRange),
		}
	}
	if err := s.writeAll(cmds...); err != nil {
		return err
	}

	s.update(func(st *State) {
		st.OutputMode = cfg.Mode
		st.OutputLevel = cfg.Level
	})
	s.Logger().Info("dc supply configured",
		"mode", cfg.Mode, "level", cfg.Level,
		"voltage_range", cfg.VoltageRange, "current_range", cfg.CurrentRange)

	return nil
}

// ConfigureRamp disables the output and sets up the ramp function towards
// level in steps steps.
func (s *Supply) ConfigureRamp(mode scpi.OutputMode, level float64, steps int) error {
	if err := scpi.CheckOptions(mode); err != nil {
		return err
	}
	if _, err := rampLimits(mode).Check("ramp level", level); err != nil {
		return err
	}
	if _, err := scpi.SupplyRampStepsLimits.Check("ramp steps", steps); err != nil {
		return err
	}
	if err := s.DisableOutput(); err != nil {
		return err
	}

	if err := s.writeAll(scpi.Ramp(mode, level), scpi.RampSteps(mode, steps)); err != nil {
		return err
	}
	s.Logger().Info("dc supply ramp function configured", "mode", mode, "level", level, "steps", steps)

	return nil
}

// ConfigureScan disables the output and sets up the scan function towards
// level in steps steps of dwell seconds each.
func (s *Supply) ConfigureScan(mode scpi.OutputMode, level float64, steps int, dwell float64) error {
	if err := scpi.CheckOptions(mode); err != nil {
		return err
	}
	if _, err := rampLimits(mode).Check("scan level", level); err != nil {
		return err
	}
	if _, err := scpi.SupplyScanStepsLimits.Check("scan steps", steps); err != nil {
		return err
	}
	if _, err := scpi.SupplyScanDwellLimits.Check("scan dwell (s)", dwell); err != nil {
		return err
	}
	if err := s.DisableOutput(); err != nil {
		return err
	}

	err := s.writeAll(scpi.Scan(mode, level), scpi.ScanSteps(mode, steps), scpi.ScanDwell(mode, dwell))
	if err != nil {
		return err
	}
	s.Logger().Info("dc supply scan function configured",
		"mode", mode, "level", level, "steps", steps, "dwell", dwell)

	return nil
}

// ConfigureSquare disables the output and sets up the square wave function.
func (s *Supply) ConfigureSquare(cfg SquareConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.DisableOutput(); err != nil {
		return err
	}

	err := s.writeAll(
		scpi.SquareAmplitude(cfg.Amplitude),
		scpi.SquareFrequency(cfg.Frequency),
		scpi.SquareDutyCycle(cfg.DutyCycle),
		scpi.SquarePulseWidth(cfg.PulseWidth),
	)
	if err != nil {
		return err
	}
	s.Logger().Info("dc supply square wave function configured",
		"amplitude", cfg.Amplitude, "frequency", cfg.Frequency,
		"duty_cycle", cfg.DutyCycle, "pulse_width", cfg.PulseWidth)

	return nil
}

// SetOutputVoltage writes the constant voltage setpoint. A live output is
// switched off first and stays off.
func (s *Supply) SetOutputVoltage(v float64) error {
	v, err := scpi.SupplyVoltageLimits.Check("output voltage", v)
	if err != nil {
		return err
	}
	if err := s.offIfEnabled(); err != nil {
		return err
	}
	if err := s.Write(scpi.SourceLevel(scpi.ConstantVoltage, v)); err != nil {
		return err
	}
	s.update(func(st *State) { st.OutputMode, st.OutputLevel = scpi.ConstantVoltage, v })

	return nil
}

// SetOutputCurrent writes the constant current setpoint. A live output is
// switched off first and stays off.
func (s *Supply) SetOutputCurrent(i float64) error {
	i, err := scpi.SupplyCurrentLimits.Check("output current", i)
	if err != nil {
		return err
	}
	if err := s.offIfEnabled(); err != nil {
		return err
	}
	if err := s.Write(scpi.SourceLevel(scpi.ConstantCurrent, i)); err != nil {
		return err
	}
	s.update(func(st *State) { st.OutputMode, st.OutputLevel = scpi.ConstantCurrent, i })

	return nil
}

// SetProtectionVoltage sets the over-voltage protection level, switching a
// live output off first.
func (s *Supply) SetProtectionVoltage(v float64) error {
	v, err := scpi.ProtectionVoltageLimits.Check("over voltage protection", v)
	if err != nil {
		return err
	}

	if err := s.offIfEnabled(); err != nil {
		return err
	}

	return s.Write(scpi.ProtectionVoltage(v))
}

// SetProtectionCurrent sets the over-current protection level, switching a
// live output off first.
func (s *Supply) SetProtectionCurrent(i float64) error {
	i, err := scpi.ProtectionCurrentLimits.Check("over current protection", i)
	if err != nil {
		return err
	}

	if err := s.offIfEnabled(); err != nil {
		return err
	}

	return s.Write(scpi.ProtectionCurrent(i))
}

// EnableOutput switches the output on with the configured setpoint.
func (s *Supply) EnableOutput() error {
	if err := s.Write(scpi.OutputState(true)); err != nil {
		return err
	}
	s.update(func(st *State) { st.OutputEnabled = true })

	return nil
}

// DisableOutput switches the output off. It always writes, even when the
// output is believed to be off already.
func (s *Supply) DisableOutput() error {
	if err := s.Write(scpi.OutputState(false)); err != nil {
		return err
	}
	s.update(func(st *State) { st.OutputEnabled = false })

	return nil
}

// SetSoftStartSteps sets the number of steps the output takes to reach its
// setpoint when enabled.
func (s *Supply) SetSoftStartSteps(steps int) error {
	steps, err := scpi.SoftStartStepsLimits.Check("soft start steps", steps)
	if err != nil {
		return err
	}

	return s.Write(scpi.SoftStart(steps))
}

// OverVoltageLimit reads the voltage limit applied in constant current mode.
func (s *Supply) OverVoltageLimit() (float64, error) {
	return s.QueryFloat(scpi.QueryOverVoltageLimit)
}

// OverCurrentLimit reads the current limit applied in constant voltage mode.
func (s *Supply) OverCurrentLimit() (float64, error) {
	return s.QueryFloat(scpi.QueryOverCurrentLimit)
}

// OutputVoltage reads the constant voltage setpoint.
func (s *Supply) OutputVoltage() (float64, error) {
	return s.QueryFloat(scpi.QueryOutputVoltage)
}

// OutputCurrent reads the constant current setpoint.
func (s *Supply) OutputCurrent() (float64, error) {
	return s.QueryFloat(scpi.QueryOutputCurrent)
}

// OutputStatus reports whether the output is on.
func (s *Supply) OutputStatus() (bool, error) {
	return s.QueryBool(scpi.QueryOutputState)
}

// SenseVoltage reads the voltage measured at the output terminals.
func (s *Supply) SenseVoltage() (float64, error) {
	return s.QueryFloat(scpi.QuerySenseVoltage)
}

// SenseCurrent reads the current measured at the output terminals.
func (s *Supply) SenseCurrent() (float64, error) {
	return s.QueryFloat(scpi.QuerySenseCurrent)
}
