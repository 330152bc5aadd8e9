package memlist

import "github.com/arloliu/go-scpi/scpi"

// SourceVoltageMeasureCurrent returns a program that drives level volts on ch,
// enables the output, takes the configured number of current readings and
// switches the output off again.
//
// Readings are kept in a 200 entry buffer on the instrument; further readings
// overwrite the oldest ones.
func SourceVoltageMeasureCurrent(ch scpi.Channel, level float64, opts ...Option) (Program, error) {
	return sourceMeasure(ch, scpi.SVMI, level, opts)
}

// SourceCurrentMeasureVoltage returns a program that drives level amperes on
// ch, enables the output, takes the configured number of voltage readings and
// switches the output off again.
func SourceCurrentMeasureVoltage(ch scpi.Channel, level float64, opts ...Option) (Program, error) {
	return sourceMeasure(ch, scpi.SIMV, level, opts)
}

func sourceMeasure(ch scpi.Channel, mode scpi.SourceMode, level float64, opts []Option) (Program, error) {
	cfg, err := newConfig(DefaultVoltageLimit, DefaultCurrentLimit, opts)
	if err != nil {
		return Program{}, err
	}

	sourced, measured := mode.Sourced(), mode.Measured()
	limit := cfg.currentLimit
	if measured == scpi.Voltage {
		limit = cfg.voltageLimit
	}

	b := NewBuilder(ch, cfg.slot).
		Ranges(cfg.voltageRange, cfg.currentRange).
		Limit(measured, limit).
		AutoDelay(true).
		Source(sourced, level).
		Output(true)

	if cfg.measureDelay > 0 {
		// the source step after the delay re-arms the level so the reading
		// is taken once the delay has elapsed
		b.Delay(cfg.measureDelay).Source(sourced, level)
	}
	for range cfg.measureCount {
		b.Measure(measured)
	}

	return b.Output(false).Build()
}

// PulseCurrent returns a program emitting a single current pulse of peak
// amperes lasting widthMs milliseconds on ch, repeated by WithLoops.
//
// The program does not switch the channel output; enable it before
// triggering. A negative peak sinks current.
func PulseCurrent(ch scpi.Channel, peak, widthMs float64, opts ...Option) (Program, error) {
	return pulse(ch, scpi.Current, peak, widthMs, opts)
}

// PulseVoltage returns a program emitting a single voltage pulse of peak
// volts lasting widthMs milliseconds on ch, repeated by WithLoops.
//
// The program does not switch the channel output.
func PulseVoltage(ch scpi.Channel, peak, widthMs float64, opts ...Option) (Program, error) {
	return pulse(ch, scpi.Voltage, peak, widthMs, opts)
}

func pulse(ch scpi.Channel, q scpi.Quantity, peak, widthMs float64, opts []Option) (Program, error) {
	cfg, err := newConfig(DefaultPulseVoltageLimit, DefaultPulseCurrentLimit, opts)
	if err != nil {
		return Program{}, err
	}

	return NewBuilder(ch, cfg.slot).
		Ranges(cfg.voltageRange, cfg.currentRange).
		Limit(scpi.Voltage, cfg.voltageLimit).
		Limit(scpi.Current, cfg.currentLimit).
		AutoDelay(true).
		Delay(widthMs).
		Source(q, peak).
		Source(q, 0).
		Window(cfg.loops).
		Build()
}
