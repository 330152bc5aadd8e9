package instrument

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-scpi/logger"
	"github.com/arloliu/go-scpi/sim"
)

func quietLogger() logger.Logger {
	return logger.NewSlogWithWriter(io.Discard, logger.DebugLevel, false, false)
}

func openSession(t *testing.T, in *sim.Instrument, opts ...Option) *Session {
	t.Helper()

	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := Open(context.Background(), sim.NewDirectory(in), in.Serial(), in.Model(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	in.ResetLog()

	return s
}
