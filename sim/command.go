package sim

import (
	"strconv"
	"strings"
)

// command is one parsed program message unit.
type command struct {
	raw     string
	header  string // upper case, no leading colon, no trailing '?'
	query   bool
	args    []string
	channel int // 0 when no channel list was given
}

func parseCommand(s string) command {
	s = strings.TrimSpace(s)
	c := command{raw: s}

	header, rest, _ := strings.Cut(s, " ")
	header = strings.ToUpper(strings.TrimPrefix(header, ":"))
	if strings.HasSuffix(header, "?") {
		c.query = true
		header = strings.TrimSuffix(header, "?")
	}
	c.header = header

	if i := strings.Index(rest, "(@"); i >= 0 {
		if j := strings.Index(rest[i:], ")"); j > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(rest[i+2 : i+j])); err == nil {
				c.channel = n
			}
			rest = rest[:i] + rest[i+j+1:]
		}
	}

	for _, arg := range strings.Split(rest, ",") {
		if arg = strings.TrimSpace(arg); arg != "" {
			c.args = append(c.args, arg)
		}
	}

	return c
}

// key identifies a handler: the header with a '?' suffix for queries.
func (c command) key() string {
	if c.query {
		return c.header + "?"
	}

	return c.header
}

func (c command) arg(i int) string {
	if i < len(c.args) {
		return c.args[i]
	}

	return ""
}

// float parses argument i, ignoring a trailing unit such as "12 V".
func (c command) float(i int) (float64, bool) {
	field, _, _ := strings.Cut(c.arg(i), " ")
	v, err := strconv.ParseFloat(field, 64)

	return v, err == nil
}

func (c command) int(i int) (int, bool) {
	v, err := strconv.Atoi(c.arg(i))
	return v, err == nil
}

// onOff parses ON/OFF/1/0.
func (c command) onOff(i int) (bool, bool) {
	switch strings.ToUpper(c.arg(i)) {
	case "ON", "1":
		return true, true
	case "OFF", "0":
		return false, true
	}

	return false, false
}

// splitUnits splits a program message into its ';' separated units.
func splitUnits(msg string) []string {
	var units []string
	for _, u := range strings.Split(msg, ";") {
		if u = strings.TrimSpace(u); u != "" {
			units = append(units, u)
		}
	}

	return units
}

func formatReading(v float64) string {
	return strconv.FormatFloat(v, 'E', 8, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}

	return "0"
}
