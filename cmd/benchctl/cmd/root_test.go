package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-scpi/memlist"
	"github.com/arloliu/go-scpi/scpi"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()

	return out.String(), err
}

func TestDiscover(t *testing.T) {
	out, err := run(t, "--sim", "discover")
	require.NoError(t, err)

	assert.Contains(t, out, "serial="+SimSupplySerial)
	assert.Contains(t, out, "serial="+SimSMUSerial)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestLogLevelFlag(t *testing.T) {
	_, err := run(t, "--sim", "--log-level", "loud", "discover")
	require.ErrorContains(t, err, "unknown level")

	_, err = run(t, "--sim", "--log-level", "error", "-v", "discover")
	require.NoError(t, err)
}

func TestIDN(t *testing.T) {
	out, err := run(t, "--sim", "idn", SimSMUSerial, "--model", "U2723")
	require.NoError(t, err)
	assert.Contains(t, out, "serial:       "+SimSMUSerial)
	assert.Contains(t, out, "model:        U2723A")

	_, err = run(t, "--sim", "idn", SimSMUSerial, "--model", "U3606")
	require.ErrorIs(t, err, scpi.ErrDeviceNotFound)
}

func TestQuery(t *testing.T) {
	out, err := run(t, "--sim", "query", SimSupplySerial, "*IDN?")
	require.NoError(t, err)
	assert.Contains(t, out, SimSupplySerial)

	_, err = run(t, "--sim", "query", SimSupplySerial, "OUTP 1")
	require.Error(t, err)
}

func TestPSUApply(t *testing.T) {
	out, err := run(t, "--sim", "psu", "apply", "--cv", "5", "--mode", "voltage")
	require.NoError(t, err)

	assert.Contains(t, out, "output:   ConstantVoltage 5 enabled=true")
	assert.Contains(t, out, "sense:    5 V  0.05 A")
	assert.Contains(t, out, "meter:    Voltage")

	_, err = run(t, "--sim", "psu", "apply", "--cv", "31")
	require.ErrorIs(t, err, scpi.ErrOutOfRange)

	_, err = run(t, "--sim", "psu", "apply", "--cv", "1", "--cc", "0.1")
	require.Error(t, err)
}

func TestSMUApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
smu:
  channels:
    - channel: 2
      source_voltage: 1
`), 0o600))

	out, err := run(t, "--sim", "--profile", path, "smu", "apply")
	require.NoError(t, err)
	assert.Equal(t, "CH2: SVMI 1 output=true measured=0.01\n", out)
}

func TestSMUMeasure(t *testing.T) {
	out, err := run(t, "--sim", "smu", "measure", "--channel", "3", "--points", "4", "--quantity", "voltage")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)

	_, err = run(t, "--sim", "smu", "measure", "--channel", "4")
	require.ErrorIs(t, err, scpi.ErrInvalidOption)

	_, err = run(t, "--sim", "smu", "measure", "--quantity", "power")
	require.ErrorIs(t, err, scpi.ErrInvalidOption)
}

func TestSMUPulse(t *testing.T) {
	prog, err := memlist.PulseCurrent(scpi.CH2, 0.02, 5, memlist.WithSlot(scpi.Mem2), memlist.WithLoops(3))
	require.NoError(t, err)

	out, err := run(t, "smu", "pulse", "--dry-run", "--channel", "2", "--slot", "2", "--peak", "0.02", "--width", "5", "--loops", "3")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(prog.Commands, "\n")+"\n", out)

	out, err = run(t, "--sim", "smu", "pulse", "--channel", "2", "--slot", "2", "--peak", "0.02", "--width", "5", "--loops", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "CH2: ")
	assert.Contains(t, out, ", 3 loops")

	_, err = run(t, "smu", "pulse", "--dry-run", "--peak", "0.5")
	require.ErrorIs(t, err, scpi.ErrOutOfRange)

	_, err = run(t, "smu", "pulse", "--dry-run", "--peak", "0.01", "--slot", "3")
	require.ErrorIs(t, err, scpi.ErrInvalidOption)
}

func TestTraceDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.cbor")

	_, err := run(t, "--sim", "--trace", path, "idn", SimSupplySerial)
	require.NoError(t, err)

	out, err := run(t, "trace", "dump", path, "--kind", "query")
	require.NoError(t, err)
	assert.Contains(t, out, "*IDN?")
	assert.NotContains(t, out, " close ")

	out, err = run(t, "trace", "dump", path)
	require.NoError(t, err)
	assert.Contains(t, out, "close")

	_, err = run(t, "trace", "dump", path, "--kind", "bogus")
	require.Error(t, err)
}
