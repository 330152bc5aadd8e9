package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpoint_Matches(t *testing.T) {
	ep := Endpoint{Address: "USB0::0x0957::0x5A07::MY53500123::0::INSTR"}

	assert.True(t, ep.Matches("USB", "MY53500123"))
	assert.True(t, ep.Matches("USB", "5350"))
	assert.False(t, ep.Matches("USB", "MY00000000"))
	assert.False(t, ep.Matches("TCPIP", "MY53500123"))
}
