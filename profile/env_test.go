package profile

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	p, err := Parse([]byte(benchYAML))
	require.NoError(t, err)

	err = p.ApplyEnv(lookupMap(map[string]string{
		"BENCH_PSU_SERIAL":              "MY0000009",
		"BENCH_PSU_MULTIMETER_MODE":     "resistance",
		"BENCH_PSU_TIMEOUT":             "30s",
		"BENCH_SMU_CH_1_SOURCE_VOLTAGE": "2.5",
		"BENCH_SMU_CH_2_SOURCE_CURRENT": "0.02",
		"BENCH_SMU_SERIAL":              "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "MY0000009", p.PSU.Serial)
	assert.Equal(t, "resistance", p.PSU.MultimeterMode)
	assert.Equal(t, 30*time.Second, p.PSU.Timeout)
	assert.Equal(t, "MY5400002", p.SMU.Serial)

	require.Len(t, p.SMU.Channels, 3)
	assert.InDelta(t, 2.5, *p.SMU.Channels[0].SourceVoltage, 1e-12)
	assert.Equal(t, 3, p.SMU.Channels[1].Channel)
	assert.Equal(t, 2, p.SMU.Channels[2].Channel)
	assert.InDelta(t, 0.02, *p.SMU.Channels[2].SourceCurrent, 1e-12)
}

func TestApplyEnv_Empty(t *testing.T) {
	var p Profile
	require.NoError(t, p.ApplyEnv(lookupMap(nil)))
	assert.Equal(t, Profile{}, p)
}

func TestApplyEnv_Malformed(t *testing.T) {
	tests := map[string]string{
		"BENCH_PSU_CONSTANT_CURRENT_OUTPUT": "1A",
		"BENCH_SMU_TIMEOUT":                 "forever",
		"BENCH_SMU_CH_3_SOURCE_VOLTAGE":     "high",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			var p Profile
			err := p.ApplyEnv(lookupMap(map[string]string{key: value}))

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, key, le.Message)
		})
	}
}

func TestReadEnv(t *testing.T) {
	path := writeFile(t, "bench.env", "BENCH_PSU_SERIAL=MY1234567\nBENCH_PSU_CONSTANT_CURRENT_OUTPUT=0.5\n")

	var p Profile
	require.NoError(t, p.ReadEnv(path))
	assert.Equal(t, "MY1234567", p.PSU.Serial)
	require.NotNil(t, p.PSU.ConstantCurrent)
	assert.InDelta(t, 0.5, *p.PSU.ConstantCurrent, 1e-12)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("BENCH_SMU_SERIAL", "FROM_ENVIRONMENT")
	path := writeFile(t, "bench.env", "BENCH_SMU_SERIAL=FROM_FILE\nBENCH_SMU_CH_3_SOURCE_CURRENT=0.001\n")
	t.Cleanup(func() { _ = os.Unsetenv("BENCH_SMU_CH_3_SOURCE_CURRENT") })

	var p Profile
	require.NoError(t, p.LoadEnv(path))
	assert.Equal(t, "FROM_ENVIRONMENT", p.SMU.Serial)
	require.Len(t, p.SMU.Channels, 1)
	assert.Equal(t, 3, p.SMU.Channels[0].Channel)

	var missing Profile
	require.Error(t, missing.LoadEnv(path+".missing"))
}
