package psu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-scpi/scpi"
	"github.com/arloliu/go-scpi/sim"
)

var teardown = []string{"SYST:ERR?", "*RST;:STAT:PRES;*CLS", "*CLS"}

func TestUse_AppliesConfigurationAndTearsDown(t *testing.T) {
	in := sim.NewU3606(testSerial)
	meter := NewMeterConfig(scpi.MeasureCurrent)
	output := NewOutputConfig(scpi.ConstantVoltage, 3.3)

	err := Use(context.Background(), sim.NewDirectory(in), Options{
		Serial:  testSerial,
		Meter:   &meter,
		Output:  &output,
		Session: testOptions(),
	}, func(s *Supply) error {
		assert.Equal(t, scpi.ConstantVoltage, s.State().OutputMode)
		return s.EnableOutput()
	})
	require.NoError(t, err)

	issued := in.Issued()
	require.GreaterOrEqual(t, len(issued), 8)
	assert.Equal(t, "CONF:CURR:DC AUTO, MIN", issued[1])
	assert.Equal(t, "OUTP:STAT OFF", issued[2])
	assert.Equal(t, teardown, issued[len(issued)-3:])
	assert.False(t, in.IsOpen())
}

func TestUse_EnablesConfiguredOutput(t *testing.T) {
	in := sim.NewU3606(testSerial)
	output := NewOutputConfig(scpi.ConstantCurrent, 0.01)

	err := Use(context.Background(), sim.NewDirectory(in), Options{
		Serial:  testSerial,
		Output:  &output,
		Enable:  true,
		Session: testOptions(),
	}, func(s *Supply) error {
		on, err := s.OutputStatus()
		if err != nil {
			return err
		}
		assert.True(t, on)
		assert.True(t, s.State().OutputEnabled)

		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, in.Issued(), "OUTP:STAT ON")
}

func TestUse_TearsDownOnError(t *testing.T) {
	in := sim.NewU3606(testSerial)
	boom := errors.New("boom")

	err := Use(context.Background(), sim.NewDirectory(in), Options{Serial: testSerial, Session: testOptions()},
		func(s *Supply) error {
			in.ResetLog()
			return boom
		})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, teardown, in.Issued())
	assert.False(t, in.IsOpen())
}

func TestUse_TearsDownOnPanic(t *testing.T) {
	in := sim.NewU3606(testSerial)

	assert.PanicsWithValue(t, "query failure", func() {
		_ = Use(context.Background(), sim.NewDirectory(in), Options{Serial: testSerial, Session: testOptions()},
			func(s *Supply) error {
				in.ResetLog()
				panic("query failure")
			})
	})
	assert.Equal(t, teardown, in.Issued())
	assert.False(t, in.IsOpen())
}

func TestUse_InvalidConfigurationStillTearsDown(t *testing.T) {
	in := sim.NewU3606(testSerial)
	output := NewOutputConfig(scpi.ConstantVoltage, 31)
	called := false

	err := Use(context.Background(), sim.NewDirectory(in), Options{
		Serial:  testSerial,
		Output:  &output,
		Session: testOptions(),
	}, func(*Supply) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, scpi.ErrOutOfRange)
	assert.False(t, called)
	assert.Equal(t, teardown, in.Issued()[1:])
}

func TestUse_JoinsTeardownErrors(t *testing.T) {
	in := sim.NewU3606(testSerial)
	stall := errors.New("stall")

	err := Use(context.Background(), sim.NewDirectory(in), Options{Serial: testSerial, Session: testOptions()},
		func(*Supply) error {
			in.FailOn("*CLS", stall)
			return nil
		})
	require.ErrorIs(t, err, stall)
	require.ErrorIs(t, err, scpi.ErrProtocol)
	assert.False(t, in.IsOpen())
}

func TestUse_DeviceNotFound(t *testing.T) {
	err := Use(context.Background(), sim.NewDirectory(sim.NewU3606(testSerial)),
		Options{Serial: "OTHER", Session: testOptions()},
		func(*Supply) error { return nil })
	require.ErrorIs(t, err, scpi.ErrDeviceNotFound)
}
