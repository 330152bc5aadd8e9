package instrument

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultTimeout, cfg.Timeout())
	assert.Equal(t, DefaultBusPrefix, cfg.BusPrefix())
	assert.NotNil(t, cfg.GetLogger())
	assert.Nil(t, cfg.Recorder())
}

func TestNewConfig_Options(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
	}{
		{name: "min timeout", opt: WithTimeout(MinTimeout)},
		{name: "max timeout", opt: WithTimeout(MaxTimeout)},
		{name: "timeout too short", opt: WithTimeout(500 * time.Millisecond), wantErr: true},
		{name: "timeout too long", opt: WithTimeout(MaxTimeout + time.Second), wantErr: true},
		{name: "bus prefix", opt: WithBusPrefix("USB0")},
		{name: "empty bus prefix", opt: WithBusPrefix(" "), wantErr: true},
		{name: "nil logger", opt: WithLogger(nil), wantErr: true},
		{name: "logger", opt: WithLogger(quietLogger())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.opt)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
