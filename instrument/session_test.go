package instrument

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-scpi/logger"
	"github.com/arloliu/go-scpi/scpi"
	"github.com/arloliu/go-scpi/sim"
	"github.com/arloliu/go-scpi/trace"
)

func TestOpen_NoDevicesDetected(t *testing.T) {
	_, err := Open(context.Background(), sim.NewDirectory(), "MY001", "U3606", WithLogger(quietLogger()))
	require.ErrorIs(t, err, scpi.ErrNoDevicesDetected)
}

func TestOpen_DeviceNotFound(t *testing.T) {
	dir := sim.NewDirectory(sim.NewU3606("MY001"))

	tests := []struct {
		name   string
		serial string
		model  string
		opts   []Option
	}{
		{name: "unknown serial", serial: "MY999", model: "U3606"},
		{name: "wrong model", serial: "MY001", model: "U2723"},
		{name: "wrong bus prefix", serial: "MY001", model: "U3606", opts: []Option{WithBusPrefix("GPIB")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithLogger(quietLogger())}, tt.opts...)
			_, err := Open(context.Background(), dir, tt.serial, tt.model, opts...)
			require.ErrorIs(t, err, scpi.ErrDeviceNotFound)
		})
	}
}

func TestOpen_SkipsMismatchedIdentity(t *testing.T) {
	smu := sim.NewU2723("MY001")
	psu := sim.NewU3606("MY001")
	dir := sim.NewDirectory(smu, psu)

	s, err := Open(context.Background(), dir, "MY001", "U3606", WithLogger(quietLogger()), WithTimeout(5*time.Second))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, psu.Address(), s.Endpoint().Address)
	assert.Equal(t, "U3606", s.Identity().Model)
	assert.False(t, smu.IsOpen())
	assert.True(t, psu.IsOpen())
	assert.Equal(t, 5*time.Second, psu.Timeout())
	assert.Equal(t, []string{"*IDN?"}, smu.Commands())
}

func TestOpen_IdentifyFailure(t *testing.T) {
	psu := sim.NewU3606("MY001")
	psu.FailOn("*IDN?", errors.New("stall"))

	_, err := Open(context.Background(), sim.NewDirectory(psu), "MY001", "U3606", WithLogger(quietLogger()))
	require.ErrorIs(t, err, scpi.ErrProtocol)
	assert.False(t, psu.IsOpen())
}

func TestSession_WaitPrecedesEveryCommand(t *testing.T) {
	psu := sim.NewU3606("MY001")
	s := openSession(t, psu)

	require.NoError(t, s.Write(scpi.OutputState(true)))
	on, err := s.QueryBool(scpi.QueryOutputState)
	require.NoError(t, err)
	assert.True(t, on)

	assert.Equal(t, []string{"*WAI", "OUTP:STAT ON", "*WAI", "OUTP?"}, psu.Commands())
	assert.Equal(t, uint64(3), s.Metrics().WriteCount.Load())
	assert.Equal(t, uint64(1), s.Metrics().QueryCount.Load())
}

func TestSession_TransportErrorIsProtocolError(t *testing.T) {
	psu := sim.NewU3606("MY001")
	s := openSession(t, psu)

	_, err := s.Query("BOGUS?")
	require.ErrorIs(t, err, scpi.ErrProtocol)
	require.ErrorIs(t, err, sim.ErrTimeout)
	require.ErrorIs(t, s.LastError(), scpi.ErrProtocol)
	assert.Equal(t, uint64(1), s.Metrics().ErrorCount.Load())
}

func TestSession_SystemErrors(t *testing.T) {
	psu := sim.NewU3606("MY001")
	s := openSession(t, psu)

	rec, err := s.SystemError()
	require.NoError(t, err)
	assert.False(t, rec.IsError())

	psu.PushError(-222, "Data out of range")
	psu.PushError(-113, "Undefined header")

	records, err := s.SystemErrors()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, -222, records[0].Code)
	assert.Equal(t, "Undefined header", records[1].Message)
	assert.Equal(t, uint64(2), s.Metrics().FirmwareErrorCount.Load())
}

func TestSession_SystemErrorsBounded(t *testing.T) {
	psu := sim.NewU3606("MY001")
	s := openSession(t, psu)

	for range MaxErrorQueue {
		psu.PushError(-100, "Command error")
	}

	records, err := s.SystemErrors()
	require.NoError(t, err)
	assert.Len(t, records, MaxErrorQueue)
}

func TestSession_CommonCommands(t *testing.T) {
	psu := sim.NewU3606("MY001")
	s := openSession(t, psu)

	require.NoError(t, s.ClearPresets())
	require.NoError(t, s.ClearStatus())
	require.NoError(t, s.Reset())
	require.NoError(t, s.Wait())

	done, err := s.IsOperationComplete()
	require.NoError(t, err)
	assert.True(t, done)

	code, err := s.Calibrate()
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	assert.Equal(t, []string{
		"*RST;:STAT:PRES;*CLS", "*CLS", "*RST", "*OPC?", "CAL?",
	}, psu.Issued())
}

func TestSession_Close(t *testing.T) {
	psu := sim.NewU3606("MY001")
	s := openSession(t, psu)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.False(t, s.IsOpen())
	assert.False(t, psu.IsOpen())

	require.ErrorIs(t, s.Write("*CLS"), ErrSessionClosed)
	_, err := s.Query("*IDN?")
	require.ErrorIs(t, err, ErrSessionClosed)
	require.ErrorIs(t, s.Wait(), ErrSessionClosed)
}

func TestSession_Tracer(t *testing.T) {
	psu := sim.NewU3606("MY001")
	rec := &trace.MemoryRecorder{}
	s := openSession(t, psu, WithTracer(rec))

	require.NoError(t, s.Write(scpi.OutputState(false)))
	require.NoError(t, s.Close())

	events := rec.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, trace.KindOpen, events[0].Kind)
	assert.Equal(t, trace.KindClose, events[len(events)-1].Kind)

	var commands []string
	for _, ev := range events {
		if ev.Kind == trace.KindWrite || ev.Kind == trace.KindQuery {
			commands = append(commands, ev.Command)
		}
	}
	assert.Equal(t, []string{"*IDN?", "*WAI", "OUTP:STAT OFF"}, commands)
}

func TestSession_LogsOpenAndClose(t *testing.T) {
	ml := logger.NewMockLogger().Permissive()
	ml.On("Info", "opened connection to instrument", mock.Anything).Once()
	ml.On("Info", "closed connection session to instrument", mock.Anything).Once()

	psu := sim.NewU3606("MY001")
	s, err := Open(context.Background(), sim.NewDirectory(psu), "MY001", "U3606", WithLogger(ml))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ml.AssertExpectations(t)
}
