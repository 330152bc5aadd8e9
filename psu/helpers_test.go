package psu

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-scpi/instrument"
	"github.com/arloliu/go-scpi/logger"
	"github.com/arloliu/go-scpi/sim"
)

const testSerial = "MY5400001"

func testOptions() []instrument.Option {
	return []instrument.Option{
		instrument.WithLogger(logger.NewSlogWithWriter(io.Discard, logger.DebugLevel, false, false)),
	}
}

func openSupply(t *testing.T) (*Supply, *sim.Instrument) {
	t.Helper()

	in := sim.NewU3606(testSerial)
	s, err := Open(context.Background(), sim.NewDirectory(in), testSerial, testOptions()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	in.ResetLog()

	return s, in
}
