package smu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-scpi/scpi"
	"github.com/arloliu/go-scpi/sim"
)

var teardown = []string{
	"SYST:ERR?",
	"OUTP 0, (@1)",
	"OUTP 0, (@2)",
	"OUTP 0, (@3)",
	"*RST;:STAT:PRES;*CLS",
	"*CLS",
}

func TestUse_ConfiguresChannels(t *testing.T) {
	in := sim.NewU2723(testSerial)
	in.SetLoad(100)

	err := Use(context.Background(), sim.NewDirectory(in), Options{
		Serial: testSerial,
		Channels: []ChannelConfig{
			{
				Channel:      scpi.CH1,
				Mode:         scpi.SVMI,
				Level:        1,
				VoltageRange: scpi.R2V,
				CurrentRange: scpi.R120mA,
				Limit:        0.05,
				Enable:       true,
			},
			{Channel: scpi.CH3, Mode: scpi.SIMV, Level: 0.001},
		},
		Session: testOptions(),
	}, func(s *SMU) error {
		assert.True(t, s.Channel(scpi.CH1).OutputEnabled)
		assert.False(t, s.Channel(scpi.CH3).OutputEnabled)
		assert.Equal(t, scpi.SIMV, s.Channel(scpi.CH3).SourceMode)

		i, err := s.MeasureCurrent(scpi.CH1)
		require.NoError(t, err)
		assert.InDelta(t, 0.01, i, 1e-9)

		return nil
	})
	require.NoError(t, err)

	issued := in.Issued()
	assert.Equal(t, []string{
		"SOUR:VOLT:RANG R2V, (@1)",
		"SOUR:CURR:RANG R120mA, (@1)",
		"SOUR:CURR:LIM 0.05, (@1)",
		"SOUR:VOLT:LEV:IMM:AMPL 1, (@1)",
		"OUTP 1, (@1)",
		"SOUR:CURR:LEV:IMM:AMPL 0.001, (@3)",
	}, issued[1:7])
	assert.Equal(t, teardown, issued[len(issued)-len(teardown):])
	assert.False(t, in.IsOpen())
}

func TestUse_DisablesEveryChannelOnError(t *testing.T) {
	in := sim.NewU2723(testSerial)
	boom := errors.New("boom")

	err := Use(context.Background(), sim.NewDirectory(in), Options{Serial: testSerial, Session: testOptions()},
		func(s *SMU) error {
			require.NoError(t, s.SetSourceVoltage(scpi.CH2, 3))
			require.NoError(t, s.EnableChannel(scpi.CH2))
			in.ResetLog()

			return boom
		})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, teardown, in.Issued())
	assert.False(t, in.IsOpen())
}

func TestUse_DisablesEveryChannelOnPanic(t *testing.T) {
	in := sim.NewU2723(testSerial)

	assert.PanicsWithValue(t, "query failure", func() {
		_ = Use(context.Background(), sim.NewDirectory(in), Options{Serial: testSerial, Session: testOptions()},
			func(s *SMU) error {
				in.ResetLog()
				panic("query failure")
			})
	})
	assert.Equal(t, teardown, in.Issued())
}

func TestUse_FirmwareErrorIsNotRaised(t *testing.T) {
	in := sim.NewU2723(testSerial)

	err := Use(context.Background(), sim.NewDirectory(in), Options{Serial: testSerial, Session: testOptions()},
		func(*SMU) error {
			in.PushError(-222, "Data out of range")
			return nil
		})
	require.NoError(t, err)
}

func TestUse_TeardownContinuesAfterFailure(t *testing.T) {
	in := sim.NewU2723(testSerial)
	stall := errors.New("stall")

	err := Use(context.Background(), sim.NewDirectory(in), Options{Serial: testSerial, Session: testOptions()},
		func(*SMU) error {
			in.FailOn("OUTP 0, (@2)", stall)
			in.ResetLog()

			return nil
		})
	require.ErrorIs(t, err, stall)
	assert.Equal(t, teardown, in.Issued())
	assert.False(t, in.IsOpen())
}

func TestUse_RejectsOptionsBeforeOpening(t *testing.T) {
	tests := []struct {
		name     string
		channels []ChannelConfig
		wantErr  error
	}{
		{
			name: "duplicate channel",
			channels: []ChannelConfig{
				{Channel: scpi.CH1, Mode: scpi.SVMI, Level: 1},
				{Channel: scpi.CH1, Mode: scpi.SIMV, Level: 0.01},
			},
			wantErr: scpi.ErrInvalidOption,
		},
		{
			name:     "single range",
			channels: []ChannelConfig{{Channel: scpi.CH2, Mode: scpi.SVMI, VoltageRange: scpi.R2V}},
			wantErr:  scpi.ErrInvalidOption,
		},
		{
			name:     "missing mode",
			channels: []ChannelConfig{{Channel: scpi.CH2}},
			wantErr:  scpi.ErrInvalidOption,
		},
		{
			name:     "current level",
			channels: []ChannelConfig{{Channel: scpi.CH3, Mode: scpi.SIMV, Level: 0.13}},
			wantErr:  scpi.ErrOutOfRange,
		},
		{
			name:     "compliance",
			channels: []ChannelConfig{{Channel: scpi.CH3, Mode: scpi.SVMI, Level: 1, Limit: 1}},
			wantErr:  scpi.ErrOutOfRange,
		},
		{
			name: "too many channels",
			channels: []ChannelConfig{
				{Channel: scpi.CH1, Mode: scpi.SVMI},
				{Channel: scpi.CH2, Mode: scpi.SVMI},
				{Channel: scpi.CH3, Mode: scpi.SVMI},
				{Channel: scpi.CH3, Mode: scpi.SVMI},
			},
			wantErr: scpi.ErrInvalidOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sim.NewU2723(testSerial)
			err := Use(context.Background(), sim.NewDirectory(in),
				Options{Serial: testSerial, Channels: tt.channels, Session: testOptions()},
				func(*SMU) error { return nil })
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, in.Commands())
		})
	}
}
