package scpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFloat(t *testing.T) {
	v, err := ParseFloat("+5.00120000E+00\n")
	require.NoError(t, err)
	assert.InDelta(t, 5.0012, v, 1e-9)

	v, err = ParseFloat("+9.99999999E+10")
	require.NoError(t, err)
	assert.True(t, IsNoMeasurement(v))

	_, err = ParseFloat("abc")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"+0\n", 0, false},
		{"+4096", 4096, false},
		{"+1.00000000E+00", 1, false},
		{"1.5", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseInt(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrProtocol, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseBool01(t *testing.T) {
	on, err := ParseBool01("1\n")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = ParseBool01("OFF")
	require.NoError(t, err)
	assert.False(t, on)

	_, err = ParseBool01("2")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestParseFloatList(t *testing.T) {
	vals, err := ParseFloatList("+1.0E-03,+2.0E-03, +9.99999999E+10\n")
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.InDelta(t, 0.001, vals[0], 1e-12)
	assert.True(t, IsNoMeasurement(vals[2]))

	vals, err = ParseFloatList("")
	require.NoError(t, err)
	assert.Empty(t, vals)

	_, err = ParseFloatList("1.0,,2.0")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestParseError(t *testing.T) {
	rec, err := ParseError(`-113,"Undefined header"` + "\n")
	require.NoError(t, err)
	assert.Equal(t, -113, rec.Code)
	assert.Equal(t, "Undefined header", rec.Message)
	assert.True(t, rec.IsError())
	assert.Equal(t, `-113,"Undefined header"`, rec.String())

	rec, err = ParseError(`+0,"No error"`)
	require.NoError(t, err)
	assert.False(t, rec.IsError())

	_, err = ParseError("garbage")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestParseIdentity(t *testing.T) {
	id := ParseIdentity("Keysight Technologies,U2723A,MY12345678,1.05\n")
	assert.Equal(t, "Keysight Technologies", id.Manufacturer)
	assert.Equal(t, "U2723A", id.Model)
	assert.Equal(t, "MY12345678", id.Serial)
	assert.Equal(t, "1.05", id.Firmware)

	id = ParseIdentity("SIM,U3606B")
	assert.Equal(t, "U3606B", id.Model)
	assert.Empty(t, id.Serial)
}

func TestParseLogDatum(t *testing.T) {
	tests := []struct {
		in      string
		numeric bool
		value   float64
	}{
		{"5.0012", true, 5.0012},
		{"-0.25", true, -0.25},
		{"+1.5E-03", true, 0.0015},
		{"12", true, 12},
		{"END", false, 0},
		{"", false, 0},
		{"1.2.3", false, 0},
	}

	for _, tt := range tests {
		d := ParseLogDatum(tt.in)
		assert.Equal(t, tt.numeric, d.Numeric, tt.in)
		assert.Equal(t, !tt.numeric, d.End(), tt.in)
		if tt.numeric {
			assert.InDelta(t, tt.value, d.Value, 1e-12, tt.in)
		}
	}
}

func TestSentinels(t *testing.T) {
	assert.True(t, IsNoMeasurement(-9.99999999e10))
	assert.False(t, IsNoMeasurement(1e10))
	assert.True(t, IsOverload(9.9e37))
	assert.False(t, IsOverload(1e6))
}
