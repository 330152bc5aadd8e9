package psu

import (
	"strings"

	"github.com/arloliu/go-scpi/scpi"
)

// ConfigureMeter applies a multimeter measurement configuration. It does not
// touch the output.
func (s *Supply) ConfigureMeter(cfg MeterConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.Write(cfg.configure()); err != nil {
		return err
	}

	s.update(func(st *State) { st.MeterMode, st.SignalType = cfg.Mode, cfg.Signal })
	s.Logger().Info("multimeter configured",
		"mode", cfg.Mode, "signal", cfg.Signal, "range", cfg.Range, "resolution", cfg.Resolution)

	return nil
}

// Measure configures the multimeter as cfg and takes one reading.
//
// Sentinel readings such as scpi.NoMeasurement are returned unchanged.
func (s *Supply) Measure(cfg MeterConfig) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	v, err := s.QueryFloat(cfg.measure())
	if err != nil {
		return 0, err
	}
	s.update(func(st *State) { st.MeterMode, st.SignalType = cfg.Mode, cfg.Signal })

	return v, nil
}

// Abort stops a measurement in progress.
func (s *Supply) Abort() error {
	if err := s.Write(scpi.CmdAbort); err != nil {
		return err
	}
	s.update(func(st *State) { st.Continuous = false })

	return nil
}

// Fetch returns the latest reading without triggering a new one. In
// continuous mode successive calls return successive samples.
func (s *Supply) Fetch() (float64, error) {
	return s.QueryFloat(scpi.QueryFetch)
}

// Read triggers and returns a single reading.
//
// The firmware turns continuous mode off as a side effect; the shadow state
// follows.
func (s *Supply) Read() (float64, error) {
	v, err := s.QueryFloat(scpi.QueryRead)
	if err != nil {
		return 0, err
	}
	s.update(func(st *State) { st.Continuous = false })

	return v, nil
}

// EnableContinuous starts continuous acquisition; Fetch then returns the latest reading.
func (s *Supply) EnableContinuous() error {
	return s.setContinuous(true)
}

// DisableContinuous stops continuous acquisition.
func (s *Supply) DisableContinuous() error {
	return s.setContinuous(false)
}

func (s *Supply) setContinuous(on bool) error {
	if err := s.Write(scpi.Continuous(on)); err != nil {
		return err
	}
	s.update(func(st *State) { st.Continuous = on })

	return nil
}

// ContinuousStatus queries whether continuous acquisition is on.
func (s *Supply) ContinuousStatus() (bool, error) {
	return s.QueryBool(scpi.QueryContinuous)
}

// MeterConfiguration returns the multimeter configuration string reported by
// the instrument, without surrounding quotes.
func (s *Supply) MeterConfiguration() (string, error) {
	reply, err := s.Query(scpi.QueryMeterConfiguration)
	if err != nil {
		return "", err
	}

	return strings.Trim(reply, `"`), nil
}
