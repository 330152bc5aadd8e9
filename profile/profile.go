package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/go-scpi/instrument"
	"github.com/arloliu/go-scpi/psu"
	"github.com/arloliu/go-scpi/scpi"
	"github.com/arloliu/go-scpi/smu"
)

// Profile is a bench profile.
type Profile struct {
	PSU PSU `yaml:"psu"`
	SMU SMU `yaml:"smu"`
}

// PSU is the supply section of a profile.
type PSU struct {
	Serial  string        `yaml:"serial"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// MultimeterMode is one of voltage, current or resistance. Empty leaves
	// the multimeter unconfigured.
	MultimeterMode string `yaml:"multimeter_mode,omitempty"`
	// MultimeterSignal is AC or DC in any case; DC when empty.
	MultimeterSignal string `yaml:"multimeter_signal,omitempty"`
	// At most one of the constant voltage (V) and constant current (A)
	// outputs may be set. The configured output is enabled.
	ConstantVoltage *float64 `yaml:"constant_voltage_output,omitempty"`
	ConstantCurrent *float64 `yaml:"constant_current_output,omitempty"`
}

// SMU is the source-measure unit section of a profile.
type SMU struct {
	Serial   string        `yaml:"serial"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	Channels []Channel     `yaml:"channels,omitempty"`
}

// Channel is the startup configuration of one SMU channel. Exactly one of
// SourceVoltage and SourceCurrent must be set.
type Channel struct {
	Channel       int      `yaml:"channel"`
	SourceVoltage *float64 `yaml:"source_voltage,omitempty"`
	SourceCurrent *float64 `yaml:"source_current,omitempty"`
	// Enable defaults to true.
	Enable *bool `yaml:"enable,omitempty"`
}

// LoadError reports a profile that could not be read or decoded.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := "profile: " + e.Message
	if e.File != "" {
		msg = "profile: " + e.File + ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Parse decodes a profile. Unknown keys are rejected.
func Parse(data []byte) (*Profile, error) {
	var p Profile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}

	return &p, nil
}

// Load reads and decodes the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	p, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}

		return nil, err
	}

	return p, nil
}

var multimeterModes = map[string]scpi.MeasureMode{
	"voltage":    scpi.MeasureVoltage,
	"current":    scpi.MeasureCurrent,
	"resistance": scpi.MeasureResistance,
}

// ParseMultimeterMode resolves voltage, current or resistance.
func ParseMultimeterMode(s string) (scpi.MeasureMode, error) {
	mode, ok := multimeterModes[s]
	if !ok {
		return 0, &scpi.OptionError{Kind: "multimeter mode", Value: s}
	}

	return mode, nil
}

func sessionOptions(timeout time.Duration, opts []instrument.Option) []instrument.Option {
	if timeout == 0 {
		return opts
	}

	return append([]instrument.Option{instrument.WithTimeout(timeout)}, opts...)
}

// Options maps the section to scoped supply options. session is appended to
// the session options derived from the profile.
func (p PSU) Options(session ...instrument.Option) (psu.Options, error) {
	opts := psu.Options{Serial: p.Serial, Session: sessionOptions(p.Timeout, session)}

	if p.MultimeterMode != "" {
		mode, err := ParseMultimeterMode(p.MultimeterMode)
		if err != nil {
			return psu.Options{}, err
		}
		meter := psu.NewMeterConfig(mode)
		if p.MultimeterSignal != "" {
			if meter.Signal, err = scpi.ParseSignalType(strings.ToUpper(p.MultimeterSignal)); err != nil {
				return psu.Options{}, err
			}
		}
		opts.Meter = &meter
	}

	var output psu.OutputConfig
	switch {
	case p.ConstantVoltage != nil && p.ConstantCurrent != nil:
		return psu.Options{}, fmt.Errorf("%w: both constant voltage and constant current output set", scpi.ErrInvalidOption)
	case p.ConstantVoltage != nil:
		output = psu.NewOutputConfig(scpi.ConstantVoltage, *p.ConstantVoltage)
	case p.ConstantCurrent != nil:
		output = psu.NewOutputConfig(scpi.ConstantCurrent, *p.ConstantCurrent)
	default:
		return opts, nil
	}
	if err := output.Validate(); err != nil {
		return psu.Options{}, err
	}
	opts.Output, opts.Enable = &output, true

	return opts, nil
}

// Options maps the section to scoped SMU options.
func (p SMU) Options(session ...instrument.Option) (smu.Options, error) {
	opts := smu.Options{Serial: p.Serial, Session: sessionOptions(p.Timeout, session)}

	for _, c := range p.Channels {
		cfg, err := c.config()
		if err != nil {
			return smu.Options{}, err
		}
		opts.Channels = append(opts.Channels, cfg)
	}

	return opts, nil
}

func (c Channel) config() (smu.ChannelConfig, error) {
	ch, err := scpi.ChannelFromInt(c.Channel)
	if err != nil {
		return smu.ChannelConfig{}, err
	}

	cfg := smu.ChannelConfig{Channel: ch, Enable: c.Enable == nil || *c.Enable}
	switch {
	case c.SourceVoltage != nil && c.SourceCurrent != nil:
		return smu.ChannelConfig{}, fmt.Errorf("%w: channel %d sources both voltage and current", scpi.ErrInvalidOption, c.Channel)
	case c.SourceVoltage != nil:
		cfg.Mode, cfg.Level = scpi.SVMI, *c.SourceVoltage
	case c.SourceCurrent != nil:
		cfg.Mode, cfg.Level = scpi.SIMV, *c.SourceCurrent
	default:
		return smu.ChannelConfig{}, fmt.Errorf("%w: channel %d has no source level", scpi.ErrInvalidOption, c.Channel)
	}

	return cfg, cfg.Validate()
}
