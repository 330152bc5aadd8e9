package smu

import (
	"github.com/arloliu/go-scpi/scpi"
)

// SetSweepPoints sets the number of readings an array measurement on ch returns.
func (s *SMU) SetSweepPoints(ch scpi.Channel, n int) error {
	if err := scpi.CheckOptions(ch); err != nil {
		return err
	}
	n, err := scpi.SMUSweepPointsLimits.Check("sweep points", n)
	if err != nil {
		return err
	}
	if err := s.Write(scpi.SweepPoints(ch, n)); err != nil {
		return err
	}
	s.update(ch, func(st *ChannelState) { st.SweepPoints = n })

	return nil
}

// SetSweepInterval sets the array measurement sample interval of ch in
// milliseconds.
func (s *SMU) SetSweepInterval(ch scpi.Channel, ms int) error {
	if err := scpi.CheckOptions(ch); err != nil {
		return err
	}
	ms, err := scpi.SMUSweepIntervalLimits.Check("sweep interval (ms)", ms)
	if err != nil {
		return err
	}
	if err := s.Write(scpi.SweepInterval(ch, ms)); err != nil {
		return err
	}
	s.update(ch, func(st *ChannelState) { st.SweepInterval = ms })

	return nil
}

func (s *SMU) queryFloat(ch scpi.Channel, cmd func(scpi.Channel, scpi.Quantity) string, q scpi.Quantity) (float64, error) {
	if err := scpi.CheckOptions(ch); err != nil {
		return 0, err
	}

	return s.QueryFloat(cmd(ch, q))
}

func (s *SMU) queryList(ch scpi.Channel, q scpi.Quantity) ([]float64, error) {
	if err := scpi.CheckOptions(ch); err != nil {
		return nil, err
	}

	return s.QueryFloatList(scpi.MeasureArray(ch, q))
}

// CurrentAperture returns the current integration time of ch in seconds.
func (s *SMU) CurrentAperture(ch scpi.Channel) (float64, error) {
	return s.queryFloat(ch, scpi.ApertureQuery, scpi.Current)
}

// VoltageAperture returns the voltage integration time of ch in seconds.
func (s *SMU) VoltageAperture(ch scpi.Channel) (float64, error) {
	return s.queryFloat(ch, scpi.ApertureQuery, scpi.Voltage)
}

// MeasureCurrent takes a single current reading on ch.
func (s *SMU) MeasureCurrent(ch scpi.Channel) (float64, error) {
	return s.queryFloat(ch, scpi.MeasureScalar, scpi.Current)
}

// MeasureVoltage takes a single voltage reading on ch.
func (s *SMU) MeasureVoltage(ch scpi.Channel) (float64, error) {
	return s.queryFloat(ch, scpi.MeasureScalar, scpi.Voltage)
}

// MeasureCurrentArray runs an array measurement of current on ch. The sweep
// points and interval must be set beforehand; the instrument does not reject
// a missing setup, it returns degraded data.
func (s *SMU) MeasureCurrentArray(ch scpi.Channel) ([]float64, error) {
	return s.queryList(ch, scpi.Current)
}

// MeasureVoltageArray runs an array measurement of voltage on ch.
func (s *SMU) MeasureVoltageArray(ch scpi.Channel) ([]float64, error) {
	return s.queryList(ch, scpi.Voltage)
}

// Abort returns the transient trigger system of ch to idle.
func (s *SMU) Abort(ch scpi.Channel) error {
	if err := scpi.CheckOptions(ch); err != nil {
		return err
	}

	return s.Write(scpi.AbortTransient(ch))
}

// InitiateTransient arms the transient trigger system of ch.
func (s *SMU) InitiateTransient(ch scpi.Channel) error {
	if err := scpi.CheckOptions(ch); err != nil {
		return err
	}

	return s.Write(scpi.InitiateTransient(ch))
}

// OperationStatus reads the operation status condition register.
func (s *SMU) OperationStatus() (int, error) {
	return s.QueryInt(scpi.QueryOperationCondition)
}
