package smu

import (
	"github.com/arloliu/go-scpi/memlist"
	"github.com/arloliu/go-scpi/scpi"
)

// LoadProgram writes p to the instrument. The program is stored but not run.
func (s *SMU) LoadProgram(p memlist.Program) error {
	if err := scpi.CheckOptions(p.Channel, p.Slot); err != nil {
		return err
	}
	for _, cmd := range p.Commands {
		if err := s.Write(cmd); err != nil {
			return err
		}
	}

	s.update(p.Channel, func(st *ChannelState) { st.Program = p.Slot })
	s.Logger().Info("memory list loaded",
		"channel", p.Channel, "slot", p.Slot, "steps", p.Steps, "loops", p.Loops)

	return nil
}

// TriggerProgram executes the memory list stored on ch.
func (s *SMU) TriggerProgram(ch scpi.Channel) error {
	if err := scpi.CheckOptions(ch); err != nil {
		return err
	}

	return s.Write(scpi.MemTrigger(ch))
}

// ReadProgramResults returns the readings captured by the last execution on
// ch. Steps that ran with the output off read as scpi.NoMeasurement.
func (s *SMU) ReadProgramResults(ch scpi.Channel) ([]float64, error) {
	if err := scpi.CheckOptions(ch); err != nil {
		return nil, err
	}

	return s.QueryFloatList(scpi.MemData(ch))
}

// RunProgram loads p, triggers it and reads its results.
func (s *SMU) RunProgram(p memlist.Program) ([]float64, error) {
	if err := s.LoadProgram(p); err != nil {
		return nil, err
	}
	if err := s.TriggerProgram(p.Channel); err != nil {
		return nil, err
	}

	return s.ReadProgramResults(p.Channel)
}
