package scpi

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel readings returned by the instruments.
const (
	// NoMeasurement is reported for memory list steps that took no reading
	// or ran with the output off.
	NoMeasurement = 9.99999999e10
	// Overload is the IEEE-488.2 overflow reading.
	Overload = 9.9e37
)

// IsNoMeasurement reports whether v is the ±9.99999999E+10 "no measurement" sentinel.
func IsNoMeasurement(v float64) bool {
	return math.Abs(math.Abs(v)-NoMeasurement) < 1
}

// IsOverload reports whether v is the ±9.9E+37 overload sentinel.
func IsOverload(v float64) bool {
	return math.Abs(v) >= Overload
}

func trimReply(s string) string {
	return strings.TrimSpace(s)
}

// ParseFloat parses a scalar NR1/NR2/NR3 reply.
func ParseFloat(reply string) (float64, error) {
	s := trimReply(reply)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, protocolErrorf("malformed numeric reply %q", s)
	}

	return v, nil
}

// ParseInt parses an integer reply such as a status register value.
// Integral NR2/NR3 forms ("+1.0", "1E+0") are accepted.
func ParseInt(reply string) (int, error) {
	s := trimReply(reply)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, protocolErrorf("malformed integer reply %q", s)
	}

	return int(f), nil
}

// ParseBool01 parses a "0"/"1" (or "OFF"/"ON") state reply.
func ParseBool01(reply string) (bool, error) {
	switch s := strings.ToUpper(trimReply(reply)); s {
	case "1", "+1", "ON":
		return true, nil
	case "0", "+0", "OFF":
		return false, nil
	default:
		return false, protocolErrorf("malformed boolean reply %q", s)
	}
}

// ParseFloatList parses a comma separated list of readings. An empty reply
// yields an empty list.
func ParseFloatList(reply string) ([]float64, error) {
	s := trimReply(reply)
	if s == "" {
		return []float64{}, nil
	}

	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, protocolErrorf("malformed reading %d in list reply %q", i, f)
		}
		out = append(out, v)
	}

	return out, nil
}

// ErrorRecord is one entry of the instrument error queue.
type ErrorRecord struct {
	Code    int
	Message string
}

// IsError reports whether the record carries an error, i.e. a non-zero code.
func (r ErrorRecord) IsError() bool { return r.Code != 0 }

func (r ErrorRecord) String() string {
	return strconv.Itoa(r.Code) + `,"` + r.Message + `"`
}

// ParseError parses a SYST:ERR? reply of the form <code>,"<message>".
func ParseError(reply string) (ErrorRecord, error) {
	s := trimReply(reply)
	codeStr, msg, found := strings.Cut(s, ",")
	if !found {
		return ErrorRecord{}, protocolErrorf("malformed error record %q", s)
	}

	code, err := strconv.Atoi(strings.TrimSpace(codeStr))
	if err != nil {
		return ErrorRecord{}, protocolErrorf("malformed error code in %q", s)
	}

	return ErrorRecord{Code: code, Message: strings.Trim(strings.TrimSpace(msg), `"`)}, nil
}

// Identity is the parsed *IDN? reply.
type Identity struct {
	Manufacturer string
	Model        string
	Serial       string
	Firmware     string
}

// ParseIdentity splits an identification reply into its four fields. Missing
// trailing fields are left empty.
func ParseIdentity(reply string) Identity {
	parts := strings.SplitN(trimReply(reply), ",", 4)
	for len(parts) < 4 {
		parts = append(parts, "")
	}

	return Identity{
		Manufacturer: strings.TrimSpace(parts[0]),
		Model:        strings.TrimSpace(parts[1]),
		Serial:       strings.TrimSpace(parts[2]),
		Firmware:     strings.TrimSpace(parts[3]),
	}
}

var numericToken = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// LogDatum is one token read back from the U3606 data log.
type LogDatum struct {
	Numeric bool
	Value   float64
	Text    string
}

// End reports whether the datum is a textual token, which marks the end of
// the logged data.
func (d LogDatum) End() bool { return !d.Numeric }

// ParseLogDatum classifies a LOG:DATA? reply as a reading or a text token.
func ParseLogDatum(reply string) LogDatum {
	s := trimReply(reply)
	if numericToken.MatchString(s) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return LogDatum{Numeric: true, Value: v, Text: s}
		}
	}

	return LogDatum{Text: s}
}
