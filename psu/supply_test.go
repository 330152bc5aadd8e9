package psu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-scpi/scpi"
)

func TestSupply_OpenSetsTimeout(t *testing.T) {
	s, in := openSupply(t)

	assert.Equal(t, DefaultTimeout, in.Timeout())
	assert.Equal(t, "U3606", s.Identity().Model)
}

func TestSupply_ConstantVoltageScenario(t *testing.T) {
	s, in := openSupply(t)
	in.SetLoad(1000)

	require.NoError(t, s.ConfigureOutput(NewOutputConfig(scpi.ConstantVoltage, 5.0)))
	require.NoError(t, s.EnableOutput())

	on, err := s.OutputStatus()
	require.NoError(t, err)
	assert.True(t, on)

	v, err := s.SenseVoltage()
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 0.01)

	st := s.State()
	assert.Equal(t, scpi.ConstantVoltage, st.OutputMode)
	assert.True(t, st.OutputEnabled)
	assert.InDelta(t, 5.0, st.OutputLevel, 1e-12)
}

func TestSupply_ConfigureOutputSequence(t *testing.T) {
	tests := []struct {
		name string
		cfg  OutputConfig
		want []string
	}{
		{
			name: "constant voltage",
			cfg:  NewOutputConfig(scpi.ConstantVoltage, 12),
			want: []string{
				"OUTP:STAT OFF",
				"SOUR:VOLT:LEV:IMM:AMPL 12",
				"SOUR:CURR:LIM 1",
				"SOUR:VOLT:RANG AUTO",
			},
		},
		{
			name: "constant current",
			cfg: OutputConfig{
				Mode:         scpi.ConstantCurrent,
				Level:        0.25,
				VoltageLimit: 9,
				CurrentLimit: 1,
				VoltageRange: scpi.VoltageRangeAuto,
				CurrentRange: scpi.CurrentRangeDefault,
			},
			want: []string{
				"OUTP:STAT OFF",
				"SOUR:CURR:LEV:IMM:AMPL 0.25",
				"SOUR:VOLT:LIM 9",
				"SOUR:CURR:RANG DEF",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, in := openSupply(t)

			require.NoError(t, s.ConfigureOutput(tt.cfg))
			assert.Equal(t, tt.want, in.Issued())
			assert.False(t, s.State().OutputEnabled)
		})
	}
}

func TestSupply_RejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name    string
		call    func(s *Supply) error
		wantErr error
	}{
		{
			name:    "cv above 30 V",
			call:    func(s *Supply) error { return s.ConfigureOutput(NewOutputConfig(scpi.ConstantVoltage, 30.0001)) },
			wantErr: scpi.ErrOutOfRange,
		},
		{
			name:    "cv negative",
			call:    func(s *Supply) error { return s.ConfigureOutput(NewOutputConfig(scpi.ConstantVoltage, -0.1)) },
			wantErr: scpi.ErrOutOfRange,
		},
		{
			name:    "cc above 1.05 A",
			call:    func(s *Supply) error { return s.ConfigureOutput(NewOutputConfig(scpi.ConstantCurrent, 1.06)) },
			wantErr: scpi.ErrOutOfRange,
		},
		{
			name:    "invalid mode",
			call:    func(s *Supply) error { return s.ConfigureOutput(NewOutputConfig(scpi.OutputMode(0), 1)) },
			wantErr: scpi.ErrInvalidOption,
		},
		{
			name: "invalid range",
			call: func(s *Supply) error {
				cfg := NewOutputConfig(scpi.ConstantVoltage, 1)
				cfg.VoltageRange = scpi.VoltageRange(9)
				return s.ConfigureOutput(cfg)
			},
			wantErr: scpi.ErrInvalidOption,
		},
		{
			name:    "set voltage",
			call:    func(s *Supply) error { return s.SetOutputVoltage(31) },
			wantErr: scpi.ErrOutOfRange,
		},
		{
			name:    "set current",
			call:    func(s *Supply) error { return s.SetOutputCurrent(2) },
			wantErr: scpi.ErrOutOfRange,
		},
		{
			name:    "protection voltage",
			call:    func(s *Supply) error { return s.SetProtectionVoltage(40) },
			wantErr: scpi.ErrOutOfRange,
		},
		{
			name:    "ramp level",
			call:    func(s *Supply) error { return s.ConfigureRamp(scpi.ConstantVoltage, 32, DefaultRampSteps) },
			wantErr: scpi.ErrOutOfRange,
		},
		{
			name:    "ramp steps",
			call:    func(s *Supply) error { return s.ConfigureRamp(scpi.ConstantCurrent, 1, 0) },
			wantErr: scpi.ErrOutOfRange,
		},
		{
			name:    "scan dwell",
			call:    func(s *Supply) error { return s.ConfigureScan(scpi.ConstantVoltage, 5, 10, 100) },
			wantErr: scpi.ErrOutOfRange,
		},
		{
			name: "square frequency",
			call: func(s *Supply) error {
				cfg := NewSquareConfig(5)
				cfg.Frequency = 601
				return s.ConfigureSquare(cfg)
			},
			wantErr: scpi.ErrOutOfRange,
		},
		{
			name:    "soft start",
			call:    func(s *Supply) error { return s.SetSoftStartSteps(0) },
			wantErr: scpi.ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, in := openSupply(t)

			require.ErrorIs(t, tt.call(s), tt.wantErr)
			assert.Empty(t, in.Commands())
		})
	}
}

func TestSupply_DisableTwiceWritesTwice(t *testing.T) {
	s, in := openSupply(t)

	require.NoError(t, s.DisableOutput())
	require.NoError(t, s.DisableOutput())
	assert.Equal(t, []string{"OUTP:STAT OFF", "OUTP:STAT OFF"}, in.Issued())
}

func TestSupply_FunctionSequences(t *testing.T) {
	tests := []struct {
		name string
		call func(s *Supply) error
		want []string
	}{
		{
			name: "voltage ramp",
			call: func(s *Supply) error { return s.ConfigureRamp(scpi.ConstantVoltage, 10, DefaultRampSteps) },
			want: []string{"OUTP:STAT OFF", "VOLT:RAMP 10", "VOLT:RAMP:STEP 100"},
		},
		{
			name: "current scan",
			call: func(s *Supply) error { return s.ConfigureScan(scpi.ConstantCurrent, 0.5, 20, DefaultScanDwell) },
			want: []string{"OUTP:STAT OFF", "CURR:SCAN 0.5", "CURR:SCAN:STEP 20", "CURR:SCAN:DWEL 2"},
		},
		{
			name: "square wave",
			call: func(s *Supply) error { return s.ConfigureSquare(NewSquareConfig(3)) },
			want: []string{"OUTP:STAT OFF", "SQU:AMPL 3", "SQU:FREQ 600", "SQU:DCYC 50", "SQU:PWID 0.000833"},
		},
		{
			name: "protection",
			call: func(s *Supply) error {
				if err := s.SetProtectionVoltage(12); err != nil {
					return err
				}
				return s.SetProtectionCurrent(0.5)
			},
			want: []string{"VOLT:PROT 12 V", "CURR:PROT 0.5 A"},
		},
		{
			name: "soft start",
			call: func(s *Supply) error { return s.SetSoftStartSteps(10) },
			want: []string{"SST:STEP 10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, in := openSupply(t)

			require.NoError(t, tt.call(s))
			assert.Equal(t, tt.want, in.Issued())
			assert.Equal(t, 0, in.ErrorCount())
		})
	}
}

func TestSupply_SetpointQueries(t *testing.T) {
	s, _ := openSupply(t)

	require.NoError(t, s.SetOutputVoltage(7.5))
	v, err := s.OutputVoltage()
	require.NoError(t, err)
	assert.InDelta(t, 7.5, v, 1e-9)

	require.NoError(t, s.SetOutputCurrent(0.2))
	i, err := s.OutputCurrent()
	require.NoError(t, err)
	assert.InDelta(t, 0.2, i, 1e-9)
	assert.Equal(t, scpi.ConstantCurrent, s.State().OutputMode)

	require.NoError(t, s.ConfigureOutput(NewOutputConfig(scpi.ConstantCurrent, 0.1)))
	limit, err := s.OverVoltageLimit()
	require.NoError(t, err)
	assert.InDelta(t, DefaultOverVoltageLimit, limit, 1e-9)
}

func TestSupply_SettersSwitchLiveOutputOff(t *testing.T) {
	tests := []struct {
		name string
		call func(s *Supply) error
		want []string
	}{
		{
			name: "voltage setpoint from constant current",
			call: func(s *Supply) error { return s.SetOutputVoltage(5) },
			want: []string{"OUTP:STAT OFF", "SOUR:VOLT:LEV:IMM:AMPL 5"},
		},
		{
			name: "current setpoint",
			call: func(s *Supply) error { return s.SetOutputCurrent(0.2) },
			want: []string{"OUTP:STAT OFF", "SOUR:CURR:LEV:IMM:AMPL 0.2"},
		},
		{
			name: "protection voltage",
			call: func(s *Supply) error { return s.SetProtectionVoltage(12) },
			want: []string{"OUTP:STAT OFF", "VOLT:PROT 12 V"},
		},
		{
			name: "protection current",
			call: func(s *Supply) error { return s.SetProtectionCurrent(0.5) },
			want: []string{"OUTP:STAT OFF", "CURR:PROT 0.5 A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, in := openSupply(t)
			require.NoError(t, s.ConfigureOutput(NewOutputConfig(scpi.ConstantCurrent, 0.1)))
			require.NoError(t, s.EnableOutput())
			in.ResetLog()

			require.NoError(t, tt.call(s))
			assert.Equal(t, tt.want, in.Issued())
			assert.False(t, s.State().OutputEnabled)

			on, err := s.OutputStatus()
			require.NoError(t, err)
			assert.False(t, on)
		})
	}
}

func TestSupply_RejectedSetterKeepsOutputOn(t *testing.T) {
	s, in := openSupply(t)
	require.NoError(t, s.ConfigureOutput(NewOutputConfig(scpi.ConstantVoltage, 2)))
	require.NoError(t, s.EnableOutput())
	in.ResetLog()

	require.ErrorIs(t, s.SetOutputVoltage(31), scpi.ErrOutOfRange)
	assert.Empty(t, in.Commands())
	assert.True(t, s.State().OutputEnabled)
}
