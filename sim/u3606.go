package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/go-scpi/internal/util"
)

// U3606 identifiers.
const (
	U3606Model   = "U3606"
	U3606Product = 0x4D18
)

// questionable status bits raised by the simulated supply.
const (
	quesOverVoltage = 4
	quesOverCurrent = 8
	quesUpperLimit  = 4096
	quesLowerLimit  = 2048
)

type meterState struct {
	function   string
	rng        string
	resolution string
	continuous bool

	calcFunc string
	calcOn   bool
	calcN    int
	calcSum  float64
	calcMin  float64
	calcMax  float64
	calcLast float64

	logging bool
	logData []float64
	logPos  int

	quesEnable int
	quesEvent  int
}

func (m *meterState) reset(_ *Instrument) {
	*m = meterState{function: "VOLT:DC", rng: "AUTO", resolution: "MIN", calcFunc: "NULL"}
}

// NewU3606 returns a simulated U3606 supply/multimeter.
func NewU3606(serial string) *Instrument {
	address := fmt.Sprintf("USB0::0x%04X::0x%04X::%s::0::INSTR", KeysightVendor, U3606Product, serial)
	in := newInstrument(U3606Model, serial, address, u3606Handlers)
	in.meter = &meterState{}
	in.meter.reset(in)

	return in
}

// Continuous reports the simulated continuous acquisition flag.
func (in *Instrument) Continuous() bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.meter != nil && in.meter.continuous
}

// outputLevels returns the voltage across and current through the load.
func (in *Instrument) outputLevels() (float64, float64) {
	if in.setting("OUTP", "0") != "1" || in.load <= 0 {
		return 0, 0
	}

	if in.setting("MODE", "VOLT") == "CURR" {
		i := in.floatSetting("CURR", 0)
		v := math.Min(i*in.load, in.floatSetting("VOLT:LIM", 30))

		return v, v / in.load
	}

	v := in.floatSetting("VOLT", 0)
	i := math.Min(v/in.load, in.floatSetting("CURR:LIM", 1.05))

	return i * in.load, i
}

func (in *Instrument) questionableCondition() int {
	v, i := in.outputLevels()
	cond := 0
	if p, ok := in.settings.Load("VOLT:PROT"); ok {
		if limit, err := strconv.ParseFloat(p, 64); err == nil && v > limit {
			cond |= quesOverVoltage
		}
	}
	if p, ok := in.settings.Load("CURR:PROT"); ok {
		if limit, err := strconv.ParseFloat(p, 64); err == nil && i > limit {
			cond |= quesOverCurrent
		}
	}

	return cond
}

// reading takes one multimeter sample for the configured function and runs it
// through the calc and logging subsystems.
func (in *Instrument) reading() float64 {
	m := in.meter
	v, i := in.outputLevels()

	var r float64
	switch {
	case strings.HasPrefix(m.function, "CURR"):
		r = i
	case m.function == "RES":
		r = in.load
	case strings.HasSuffix(m.function, ":AC"):
		r = 0
	default:
		r = v
	}

	if m.calcOn {
		r = in.calc(r)
	}
	if m.logging {
		m.logData = append(m.logData, r)
	}
	m.quesEvent |= in.questionableCondition()

	return r
}

func (in *Instrument) calc(r float64) float64 {
	m := in.meter
	m.calcLast = r
	if m.calcN == 0 || r < m.calcMin {
		m.calcMin = r
	}
	if m.calcN == 0 || r > m.calcMax {
		m.calcMax = r
	}
	m.calcN++
	m.calcSum += r

	switch m.calcFunc {
	case "NULL":
		return r - in.floatSetting("CALC:NULL:OFFS", 0)
	case "DB":
		if r <= 0 {
			return 0
		}

		return 20*math.Log10(r) - in.floatSetting("CALC:DB:REF", 0)
	case "DBM":
		ref := in.floatSetting("CALC:DBM:REF", 600)
		if r == 0 || ref <= 0 {
			return 0
		}

		return 10 * math.Log10(r*r/ref/1e-3)
	case "LIM":
		if upper, ok := in.settings.Load("CALC:LIM:UPP"); ok {
			if u, err := strconv.ParseFloat(upper, 64); err == nil && r > u {
				m.quesEvent |= quesUpperLimit
			}
		}
		if lower, ok := in.settings.Load("CALC:LIM:LOW"); ok {
			if l, err := strconv.ParseFloat(lower, 64); err == nil && r < l {
				m.quesEvent |= quesLowerLimit
			}
		}
	}

	return r
}

func storeFloatHandler(key string) handler {
	return func(in *Instrument, c command) string {
		in.storeFloat(key, c, 0)
		return ""
	}
}

func storeTokenHandler(key string, allowed ...string) handler {
	return func(in *Instrument, c command) string {
		in.storeToken(key, c, 0, allowed...)
		return ""
	}
}

func querySettingHandler(key, def string) handler {
	return func(in *Instrument, _ command) string {
		return in.setting(key, def)
	}
}

func sourceLevelHandler(mode string) handler {
	return func(in *Instrument, c command) string {
		v, ok := c.float(0)
		if !ok {
			in.pushError(-224, "Illegal parameter value")
			return ""
		}
		in.settings.Store("MODE", mode)
		in.settings.Store(mode, strconv.FormatFloat(v, 'g', -1, 64))

		return ""
	}
}

func configureHandler(function string) handler {
	return func(in *Instrument, c command) string {
		in.meter.function = function
		if r := c.arg(0); r != "" {
			in.meter.rng = strings.ToUpper(r)
		}
		if res := c.arg(1); res != "" {
			in.meter.resolution = strings.ToUpper(res)
		}

		return ""
	}
}

func measureHandler(function string) handler {
	return func(in *Instrument, c command) string {
		configureHandler(function)(in, c)
		return formatReading(in.reading())
	}
}

func calcStatHandler(stat func(m *meterState) float64) handler {
	return func(in *Instrument, _ command) string {
		if in.meter.calcN == 0 {
			return formatReading(0)
		}

		return formatReading(stat(in.meter))
	}
}

var u3606Handlers = map[string]handler{
	"SOUR:VOLT:LEV:IMM:AMPL": sourceLevelHandler("VOLT"),
	"SOUR:CURR:LEV:IMM:AMPL": sourceLevelHandler("CURR"),
	"SOUR:VOLT:LIM":          storeFloatHandler("VOLT:LIM"),
	"SOUR:CURR:LIM":          storeFloatHandler("CURR:LIM"),
	"SOUR:VOLT:RANG":         storeTokenHandler("VOLT:RANG", "AUTO", "MAX", "MIN"),
	"SOUR:CURR:RANG":         storeTokenHandler("CURR:RANG", "AUTO", "MAX", "DEF", "MIN"),
	"VOLT:PROT":              storeFloatHandler("VOLT:PROT"),
	"CURR:PROT":              storeFloatHandler("CURR:PROT"),
	"SST:STEP":               storeFloatHandler("SST:STEP"),
	"OUTP:STAT": func(in *Instrument, c command) string {
		on, ok := c.onOff(0)
		if !ok {
			in.pushError(-224, "Illegal parameter value")
			return ""
		}
		in.settings.Store("OUTP", formatBool(on))

		return ""
	},
	"OUTP?":     querySettingHandler("OUTP", "0"),
	"VOLT?":     func(in *Instrument, _ command) string { return formatReading(in.floatSetting("VOLT", 0)) },
	"CURR?":     func(in *Instrument, _ command) string { return formatReading(in.floatSetting("CURR", 0)) },
	"VOLT:LIM?": func(in *Instrument, _ command) string { return formatReading(in.floatSetting("VOLT:LIM", 30)) },
	"CURR:LIM?": func(in *Instrument, _ command) string { return formatReading(in.floatSetting("CURR:LIM", 1.05)) },
	"SENS:VOLT?": func(in *Instrument, _ command) string {
		v, _ := in.outputLevels()
		return formatReading(v)
	},
	"SENS:CURR?": func(in *Instrument, _ command) string {
		_, i := in.outputLevels()
		return formatReading(i)
	},

	"VOLT:RAMP":      storeFloatHandler("VOLT:RAMP"),
	"CURR:RAMP":      storeFloatHandler("CURR:RAMP"),
	"VOLT:RAMP:STEP": storeFloatHandler("VOLT:RAMP:STEP"),
	"CURR:RAMP:STEP": storeFloatHandler("CURR:RAMP:STEP"),
	"VOLT:SCAN":      storeFloatHandler("VOLT:SCAN"),
	"CURR:SCAN":      storeFloatHandler("CURR:SCAN"),
	"VOLT:SCAN:STEP": storeFloatHandler("VOLT:SCAN:STEP"),
	"CURR:SCAN:STEP": storeFloatHandler("CURR:SCAN:STEP"),
	"VOLT:SCAN:DWEL": storeFloatHandler("VOLT:SCAN:DWEL"),
	"CURR:SCAN:DWEL": storeFloatHandler("CURR:SCAN:DWEL"),
	"SQU:AMPL":       storeFloatHandler("SQU:AMPL"),
	"SQU:FREQ":       storeFloatHandler("SQU:FREQ"),
	"SQU:DCYC":       storeFloatHandler("SQU:DCYC"),
	"SQU:PWID":       storeFloatHandler("SQU:PWID"),

	"CONF:VOLT:DC":  configureHandler("VOLT:DC"),
	"CONF:VOLT:AC":  configureHandler("VOLT:AC"),
	"CONF:CURR:DC":  configureHandler("CURR:DC"),
	"CONF:CURR:AC":  configureHandler("CURR:AC"),
	"CONF:RES":      configureHandler("RES"),
	"MEAS:VOLT:DC?": measureHandler("VOLT:DC"),
	"MEAS:VOLT:AC?": measureHandler("VOLT:AC"),
	"MEAS:CURR:DC?": measureHandler("CURR:DC"),
	"MEAS:CURR:AC?": measureHandler("CURR:AC"),
	"MEAS:RES?":     measureHandler("RES"),
	"CONF?": func(in *Instrument, _ command) string {
		m := in.meter
		return fmt.Sprintf("%q", m.function+" "+m.rng+","+m.resolution)
	},
	"READ?": func(in *Instrument, _ command) string {
		in.meter.continuous = false
		return formatReading(in.reading())
	},
	"FETC?": func(in *Instrument, _ command) string { return formatReading(in.reading()) },
	"INIT:CONT": func(in *Instrument, c command) string {
		on, ok := c.onOff(0)
		if !ok {
			in.pushError(-224, "Illegal parameter value")
			return ""
		}
		in.meter.continuous = on

		return ""
	},
	"INIT:CONT?": func(in *Instrument, _ command) string { return formatBool(in.meter.continuous) },
	"ABOR": func(in *Instrument, _ command) string {
		in.meter.continuous = false
		return ""
	},

	"STAT:QUES:ENAB": func(in *Instrument, c command) string {
		bit, ok := c.int(0)
		if !ok {
			in.pushError(-224, "Illegal parameter value")
			return ""
		}
		in.meter.quesEnable |= bit

		return ""
	},
	"STAT:QUES:ENAB?": func(in *Instrument, _ command) string { return strconv.Itoa(in.meter.quesEnable) },
	"STAT:QUES?": func(in *Instrument, _ command) string {
		ev := in.meter.quesEvent | in.questionableCondition()
		in.meter.quesEvent = 0

		return strconv.Itoa(ev)
	},
	"STAT:QUES:COND?": func(in *Instrument, _ command) string { return strconv.Itoa(in.questionableCondition()) },

	"CALC:FUNC": func(in *Instrument, c command) string {
		fn := strings.ToUpper(c.arg(0))
		switch fn {
		case "AVER", "DB", "DBM", "HOLD", "LIM", "NULL":
			in.meter.calcFunc = fn
			in.meter.calcN, in.meter.calcSum = 0, 0
		default:
			in.pushError(-224, "Illegal parameter value")
		}

		return ""
	},
	"CALC:FUNC?": func(in *Instrument, _ command) string { return in.meter.calcFunc },
	"CALC": func(in *Instrument, c command) string {
		on, ok := c.onOff(0)
		if !ok {
			in.pushError(-224, "Illegal parameter value")
			return ""
		}
		in.meter.calcOn = on

		return ""
	},
	"CALC?":           func(in *Instrument, _ command) string { return formatBool(in.meter.calcOn) },
	"CALC:AVER:AVER?": calcStatHandler(func(m *meterState) float64 { return m.calcSum / float64(m.calcN) }),
	"CALC:AVER:MAX?":  calcStatHandler(func(m *meterState) float64 { return m.calcMax }),
	"CALC:AVER:MIN?":  calcStatHandler(func(m *meterState) float64 { return m.calcMin }),
	"CALC:AVER:PRES?": calcStatHandler(func(m *meterState) float64 { return m.calcLast }),
	"CALC:DB:REF":     storeFloatHandler("CALC:DB:REF"),
	"CALC:DBM:REF":    storeFloatHandler("CALC:DBM:REF"),
	"CALC:HOLD:VAR":   storeFloatHandler("CALC:HOLD:VAR"),
	"CALC:HOLD:THR":   storeFloatHandler("CALC:HOLD:THR"),
	"CALC:LIM:UPP":    storeFloatHandler("CALC:LIM:UPP"),
	"CALC:LIM:LOW":    storeFloatHandler("CALC:LIM:LOW"),
	"CALC:NULL:OFFS":  storeFloatHandler("CALC:NULL:OFFS"),

	"LOG": func(in *Instrument, c command) string {
		on, ok := c.onOff(0)
		if !ok {
			in.pushError(-224, "Illegal parameter value")
			return ""
		}
		in.meter.logging = on

		return ""
	},
	"LOG?": func(in *Instrument, _ command) string { return formatBool(in.meter.logging) },
	"LOG:DATA:DEL": func(in *Instrument, _ command) string {
		in.meter.logData = nil
		in.meter.logPos = 0

		return ""
	},
	"LOG:LOAD": func(in *Instrument, _ command) string {
		in.meter.logPos = 0
		return ""
	},
	"LOG:DATA?": func(in *Instrument, _ command) string {
		m := in.meter
		if m.logPos >= len(m.logData) {
			return "END"
		}
		m.logPos++

		return formatReading(m.logData[m.logPos-1])
	},
}

// LoggedReadings returns the readings captured while data logging was on.
func (in *Instrument) LoggedReadings() []float64 {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.meter == nil {
		return nil
	}

	return util.CloneSlice(in.meter.logData, 0)
}
