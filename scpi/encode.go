package scpi

import (
	"strconv"
	"strings"
)

// IEEE-488.2 common commands and system queries shared by both instruments.
const (
	CmdIdentify          = "*IDN?"
	CmdWait              = "*WAI"
	CmdOperationComplete = "*OPC?"
	CmdClearStatus       = "*CLS"
	CmdReset             = "*RST"
	CmdClearPresets      = "*RST;:STAT:PRES;*CLS"
	CmdSystemError       = "SYST:ERR?"
	CmdCalibrate         = "CAL?"
)

// FormatFloat renders a numeric parameter in the shortest form that parses
// back to the same float64.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func onOff(on bool) string {
	if on {
		return "ON"
	}

	return "OFF"
}

// channelSuffix renders the ", (@n)" channel list suffix.
func channelSuffix(ch Channel) string {
	return ", (@" + ch.Token() + ")"
}

// channelList renders the bare "(@n)" channel list.
func channelList(ch Channel) string {
	return "(@" + ch.Token() + ")"
}

// IsQuery reports whether cmd expects a reply, i.e. its header ends with '?'.
func IsQuery(cmd string) bool {
	header, _, _ := strings.Cut(strings.TrimSpace(cmd), " ")
	return strings.HasSuffix(header, "?")
}
