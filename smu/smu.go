package smu

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/arloliu/go-scpi/instrument"
	"github.com/arloliu/go-scpi/scpi"
	"github.com/arloliu/go-scpi/transport"
)

const (
	// Model is the token the U2723 reports in its identification string.
	Model = "U2723"
	// DefaultTimeout is the transport timeout of an SMU session. Array
	// measurements with long sample intervals take minutes.
	DefaultTimeout = 120 * time.Second
)

// ChannelState is the last configuration successfully written to a channel.
// Zero fields have not been written in this session.
type ChannelState struct {
	SourceMode    scpi.SourceMode
	SourceLevel   float64
	VoltageRange  scpi.SMUVoltageRange
	CurrentRange  scpi.SMUCurrentRange
	VoltageLimit  float64
	CurrentLimit  float64
	OutputEnabled bool
	SweepPoints   int
	SweepInterval int // ms
	// Program is the memory list slot last stored on the channel.
	Program scpi.MemorySlot
}

// SMU is an open session to a U2723.
type SMU struct {
	*instrument.Session

	mu       sync.Mutex
	channels [3]ChannelState
}

// Open opens the U2723 with the given serial number found in dir.
func Open(ctx context.Context, dir transport.Directory, serial string, opts ...instrument.Option) (*SMU, error) {
	opts = append([]instrument.Option{instrument.WithTimeout(DefaultTimeout)}, opts...)

	sess, err := instrument.Open(ctx, dir, serial, Model, opts...)
	if err != nil {
		return nil, err
	}

	return &SMU{Session: sess}, nil
}

// Channel returns a copy of the shadow state of ch. An invalid channel
// yields the zero state.
func (s *SMU) Channel(ch scpi.Channel) ChannelState {
	if !ch.Valid() {
		return ChannelState{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.channels[ch.Index()]
}

func (s *SMU) update(ch scpi.Channel, fn func(st *ChannelState)) {
	s.mu.Lock()
	fn(&s.channels[ch.Index()])
	s.mu.Unlock()
}

func quantityName(q scpi.Quantity) string {
	return strings.ToLower(q.String())
}

func limitsOf(q scpi.Quantity) scpi.Bounds {
	if q == scpi.Current {
		return scpi.SMUCurrentLimits
	}

	return scpi.SMUVoltageLimits
}

// source validates and writes a source level for q on ch.
func (s *SMU) source(ch scpi.Channel, q scpi.Quantity, v float64) error {
	if err := scpi.CheckOptions(ch); err != nil {
		return err
	}
	v, err := limitsOf(q).Check("source "+quantityName(q), v)
	if err != nil {
		return err
	}
	if err := s.Write(scpi.SMUSource(ch, q, v)); err != nil {
		return err
	}

	mode := scpi.SVMI
	if q == scpi.Current {
		mode = scpi.SIMV
	}
	s.update(ch, func(st *ChannelState) { st.SourceMode, st.SourceLevel = mode, v })

	return nil
}

// SetSourceVoltage puts ch in SVMI mode sourcing v volts.
func (s *SMU) SetSourceVoltage(ch scpi.Channel, v float64) error {
	return s.source(ch, scpi.Voltage, v)
}

// SetSourceCurrent puts ch in SIMV mode sourcing i amperes.
func (s *SMU) SetSourceCurrent(ch scpi.Channel, i float64) error {
	return s.source(ch, scpi.Current, i)
}

func (s *SMU) limit(ch scpi.Channel, q scpi.Quantity, v float64) error {
	if err := scpi.CheckOptions(ch); err != nil {
		return err
	}
	v, err := limitsOf(q).Check(quantityName(q)+" limit", v)
	if err != nil {
		return err
	}
	if err := s.Write(scpi.SMULimit(ch, q, v)); err != nil {
		return err
	}
	s.update(ch, func(st *ChannelState) {
		if q == scpi.Current {
			st.CurrentLimit = v
		} else {
			st.VoltageLimit = v
		}
	})

	return nil
}

// SetVoltageLimit sets the voltage compliance of ch while it sources current.
func (s *SMU) SetVoltageLimit(ch scpi.Channel, v float64) error {
	return s.limit(ch, scpi.Voltage, v)
}

// SetCurrentLimit sets the current compliance of ch while it sources voltage.
func (s *SMU) SetCurrentLimit(ch scpi.Channel, i float64) error {
	return s.limit(ch, scpi.Current, i)
}

// SetVoltageRange sets the voltage range of ch.
func (s *SMU) SetVoltageRange(ch scpi.Channel, r scpi.SMUVoltageRange) error {
	if err := scpi.CheckOptions(ch, r); err != nil {
		return err
	}
	if err := s.Write(scpi.SetSMUVoltageRange(ch, r)); err != nil {
		return err
	}
	s.update(ch, func(st *ChannelState) { st.VoltageRange = r })

	return nil
}

// SetCurrentRange sets the current range of ch.
func (s *SMU) SetCurrentRange(ch scpi.Channel, r scpi.SMUCurrentRange) error {
	if err := scpi.CheckOptions(ch, r); err != nil {
		return err
	}
	if err := s.Write(scpi.SetSMUCurrentRange(ch, r)); err != nil {
		return err
	}
	s.update(ch, func(st *ChannelState) { st.CurrentRange = r })

	return nil
}

// SetRanges sets the voltage and current range of ch as a pair. Ranges
// should be set before setpoints; a range change does not reclamp an
// existing setpoint.
func (s *SMU) SetRanges(ch scpi.Channel, v scpi.SMUVoltageRange, i scpi.SMUCurrentRange) error {
	if err := scpi.CheckOptions(ch, v, i); err != nil {
		return err
	}
	if err := s.SetVoltageRange(ch, v); err != nil {
		return err
	}

	return s.SetCurrentRange(ch, i)
}

func (s *SMU) trigger(ch scpi.Channel, q scpi.Quantity, v float64) error {
	if err := scpi.CheckOptions(ch); err != nil {
		return err
	}
	v, err := limitsOf(q).Check(quantityName(q)+" trigger level", v)
	if err != nil {
		return err
	}

	return s.Write(scpi.SMUTrigger(ch, q, v))
}

// SetTriggerVoltage sets the voltage ch switches to when a transient trigger fires.
func (s *SMU) SetTriggerVoltage(ch scpi.Channel, v float64) error {
	return s.trigger(ch, scpi.Voltage, v)
}

// SetTriggerCurrent sets the current ch switches to when a transient trigger fires.
func (s *SMU) SetTriggerCurrent(ch scpi.Channel, i float64) error {
	return s.trigger(ch, scpi.Current, i)
}

func (s *SMU) setOutput(ch scpi.Channel, on bool) error {
	if err := scpi.CheckOptions(ch); err != nil {
		return err
	}
	if err := s.Write(scpi.SMUOutput(ch, on)); err != nil {
		return err
	}
	s.update(ch, func(st *ChannelState) { st.OutputEnabled = on })

	return nil
}

// EnableChannel switches the output of ch on.
func (s *SMU) EnableChannel(ch scpi.Channel) error {
	if err := s.setOutput(ch, true); err != nil {
		return err
	}
	s.Logger().Info("smu channel enabled", "channel", ch)

	return nil
}

// DisableChannel switches the output of ch off. It always writes.
func (s *SMU) DisableChannel(ch scpi.Channel) error {
	return s.setOutput(ch, false)
}

// OutputStatus reports whether the output of ch is on.
func (s *SMU) OutputStatus(ch scpi.Channel) (bool, error) {
	if err := scpi.CheckOptions(ch); err != nil {
		return false, err
	}

	return s.QueryBool(scpi.SMUOutputQuery(ch))
}
