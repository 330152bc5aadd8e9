package smu

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-scpi/instrument"
	"github.com/arloliu/go-scpi/logger"
	"github.com/arloliu/go-scpi/sim"
)

const testSerial = "MY5400002"

func testOptions() []instrument.Option {
	return []instrument.Option{
		instrument.WithLogger(logger.NewSlogWithWriter(io.Discard, logger.DebugLevel, false, false)),
	}
}

func openSMU(t *testing.T) (*SMU, *sim.Instrument) {
	t.Helper()

	in := sim.NewU2723(testSerial)
	s, err := Open(context.Background(), sim.NewDirectory(in), testSerial, testOptions()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	in.ResetLog()

	return s, in
}
