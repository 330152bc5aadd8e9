package psu

import (
	"github.com/arloliu/go-scpi/scpi"
)

// Output defaults.
const (
	DefaultOverVoltageLimit = 30.0 // V, applied in constant current mode
	DefaultOverCurrentLimit = 1.0  // A, applied in constant voltage mode

	DefaultRampSteps = 100
	DefaultScanDwell = 2.0 // s

	DefaultSquareFrequency  = 600.0    // Hz
	DefaultSquareDutyCycle  = 50.0     // %
	DefaultSquarePulseWidth = 0.000833 // s
)

// OutputConfig is the DC output configuration.
type OutputConfig struct {
	Mode scpi.OutputMode
	// Level is the regulated setpoint, in V for constant voltage and in A for
	// constant current.
	Level float64
	// VoltageLimit bounds the output voltage in constant current mode.
	VoltageLimit float64
	// CurrentLimit bounds the output current in constant voltage mode.
	CurrentLimit float64
	VoltageRange scpi.VoltageRange
	CurrentRange scpi.CurrentRange
}

// NewOutputConfig returns an output configuration with default limits and
// auto ranging.
func NewOutputConfig(mode scpi.OutputMode, level float64) OutputConfig {
	return OutputConfig{
		Mode:         mode,
		Level:        level,
		VoltageLimit: DefaultOverVoltageLimit,
		CurrentLimit: DefaultOverCurrentLimit,
		VoltageRange: scpi.VoltageRangeAuto,
		CurrentRange: scpi.CurrentRangeAuto,
	}
}

// Validate checks the options and the bounds of every value the mode uses.
func (c OutputConfig) Validate() error {
	if err := scpi.CheckOptions(c.Mode, c.VoltageRange, c.CurrentRange); err != nil {
		return err
	}

	var err error
	switch c.Mode {
	case scpi.ConstantVoltage:
		if _, err = scpi.SupplyVoltageLimits.Check("output voltage", c.Level); err == nil {
			_, err = scpi.SupplyCurrentLimits.Check("over current limit", c.CurrentLimit)
		}
	case scpi.ConstantCurrent:
		if _, err = scpi.SupplyCurrentLimits.Check("output current", c.Level); err == nil {
			_, err = scpi.SupplyVoltageLimits.Check("over voltage limit", c.VoltageLimit)
		}
	}

	return err
}

// MeterConfig is the multimeter measurement configuration.
type MeterConfig struct {
	Mode       scpi.MeasureMode
	Range      scpi.MeterRange
	Resolution scpi.Resolution
	// Signal selects AC or DC; it is ignored for resistance.
	Signal scpi.SignalType
}

// NewMeterConfig returns an auto ranged, minimum resolution DC configuration.
func NewMeterConfig(mode scpi.MeasureMode) MeterConfig {
	return MeterConfig{
		Mode:       mode,
		Range:      scpi.MeterRangeAuto,
		Resolution: scpi.ResolutionMin,
		Signal:     scpi.SignalDC,
	}
}

// Validate rejects unknown option values.
func (c MeterConfig) Validate() error {
	return scpi.CheckOptions(c.Mode, c.Range, c.Resolution, c.Signal)
}

func (c MeterConfig) configure() string {
	return scpi.Configure(c.Mode, c.Range, c.Resolution, c.Signal)
}

func (c MeterConfig) measure() string {
	return scpi.Measure(c.Mode, c.Range, c.Resolution, c.Signal)
}

// SquareConfig is the square wave output configuration.
type SquareConfig struct {
	Amplitude  float64 // V
	Frequency  float64 // Hz, one of scpi.SquareFrequencies
	DutyCycle  float64 // %
	PulseWidth float64 // s
}

// NewSquareConfig returns a 600 Hz, 50% duty cycle square wave of amplitude volts.
func NewSquareConfig(amplitude float64) SquareConfig {
	return SquareConfig{
		Amplitude:  amplitude,
		Frequency:  DefaultSquareFrequency,
		DutyCycle:  DefaultSquareDutyCycle,
		PulseWidth: DefaultSquarePulseWidth,
	}
}

// Validate checks every square wave parameter against the supply limits.
func (c SquareConfig) Validate() error {
	if _, err := scpi.SquareAmplitudeLimits.Check("square amplitude", c.Amplitude); err != nil {
		return err
	}
	if _, err := scpi.ValidateSquareFrequency(c.Frequency); err != nil {
		return err
	}
	if _, err := scpi.SquareDutyCycleLimits.Check("square duty cycle", c.DutyCycle); err != nil {
		return err
	}
	_, err := scpi.SquarePulseWidthLimits.Check("square pulse width", c.PulseWidth)

	return err
}

// rampLimits returns the ramp and scan level bounds for mode.
func rampLimits(mode scpi.OutputMode) scpi.Bounds {
	if mode == scpi.ConstantCurrent {
		return scpi.SupplyRampCurrentLimits
	}

	return scpi.SupplyRampVoltageLimits
}
