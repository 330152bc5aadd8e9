package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/go-scpi/internal/queue"
	"github.com/arloliu/go-scpi/scpi"
)

// U2723 identifiers.
const (
	U2723Model   = "U2723A"
	U2723Product = 0x4118
)

const (
	smuChannels = 3
	// MemoryBufferSize is the number of readings a channel keeps from memory
	// list execution; older readings are overwritten.
	MemoryBufferSize = 200
	operTransient    = 16
)

type memEntry struct {
	header string
	args   []string
}

type memList struct {
	entries []memEntry
	start   int
	end     int
	loops   int
	stored  bool
}

type smuChannel struct {
	lists   [2]memList
	editing int // 1-based slot selected by MEM:LIST, 0 when none
	active  int
	data    queue.Queue[float64]
	armed   bool
}

type smuState struct {
	channels [smuChannels]*smuChannel
}

func (s *smuState) reset(_ *Instrument) {
	for i := range s.channels {
		s.channels[i] = &smuChannel{data: queue.NewBounded[float64](MemoryBufferSize)}
	}
}

// NewU2723 returns a simulated three-channel U2723 source-measure unit.
func NewU2723(serial string) *Instrument {
	address := fmt.Sprintf("USB0::0x%04X::0x%04X::%s::0::INSTR", KeysightVendor, U2723Product, serial)
	in := newInstrument(U2723Model, serial, address, u2723Handlers)
	in.smu = &smuState{}
	in.smu.reset(in)

	return in
}

// ChannelSetting returns a raw per-channel setting such as "OUTP" or "VOLT".
func (in *Instrument) ChannelSetting(ch int, key string) (string, bool) {
	return in.settings.Load(channelKey(key, ch))
}

// MemoryEntries returns the number of entries in a channel's memory list slot.
func (in *Instrument) MemoryEntries(ch, slot int) int {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.smu == nil || ch < 1 || ch > smuChannels || slot < 1 || slot > 2 {
		return 0
	}

	return len(in.smu.channels[ch-1].lists[slot-1].entries)
}

func channelKey(key string, ch int) string {
	return key + "@" + strconv.Itoa(ch)
}

// channel resolves the channel list of c, queueing an error when it is
// missing or out of range.
func (in *Instrument) channel(c command) (*smuChannel, bool) {
	if c.channel < 1 || c.channel > smuChannels {
		in.pushError(-224, "Illegal parameter value")
		return nil, false
	}

	return in.smu.channels[c.channel-1], true
}

// channelLevels returns the voltage and current a channel drives into the load.
func (in *Instrument) channelLevels(ch int) (float64, float64) {
	if in.setting(channelKey("OUTP", ch), "0") != "1" || in.load <= 0 {
		return 0, 0
	}

	if in.setting(channelKey("MODE", ch), "VOLT") == "CURR" {
		i := in.floatSetting(channelKey("CURR", ch), 0)
		vlim := in.floatSetting(channelKey("VOLT:LIM", ch), 20)
		v := math.Max(-vlim, math.Min(i*in.load, vlim))

		return v, v / in.load
	}

	v := in.floatSetting(channelKey("VOLT", ch), 0)
	ilim := in.floatSetting(channelKey("CURR:LIM", ch), 0.12)
	i := math.Max(-ilim, math.Min(v/in.load, ilim))

	return i * in.load, i
}

func (in *Instrument) channelReading(ch int, quantity string) float64 {
	v, i := in.channelLevels(ch)
	if quantity == "CURR" {
		return i
	}

	return v
}

func channelFloatHandler(key string) handler {
	return func(in *Instrument, c command) string {
		if _, ok := in.channel(c); ok {
			in.storeFloat(channelKey(key, c.channel), c, 0)
		}

		return ""
	}
}

func channelTokenHandler(key string, allowed ...string) handler {
	return func(in *Instrument, c command) string {
		if _, ok := in.channel(c); ok {
			in.storeToken(channelKey(key, c.channel), c, 0, allowed...)
		}

		return ""
	}
}

func channelSourceHandler(quantity string) handler {
	return func(in *Instrument, c command) string {
		if _, ok := in.channel(c); !ok {
			return ""
		}
		if _, ok := c.float(0); !ok {
			in.pushError(-224, "Illegal parameter value")
			return ""
		}
		in.settings.Store(channelKey("MODE", c.channel), quantity)
		in.storeFloat(channelKey(quantity, c.channel), c, 0)

		return ""
	}
}

func scalarHandler(quantity string) handler {
	return func(in *Instrument, c command) string {
		if _, ok := in.channel(c); !ok {
			return formatReading(scpi.NoMeasurement)
		}

		return formatReading(in.channelReading(c.channel, quantity))
	}
}

func arrayHandler(quantity string) handler {
	return func(in *Instrument, c command) string {
		if _, ok := in.channel(c); !ok {
			return ""
		}
		n := int(in.floatSetting(channelKey("SWE:POIN", c.channel), 1))
		r := formatReading(in.channelReading(c.channel, quantity))
		readings := make([]string, n)
		for i := range readings {
			readings[i] = r
		}

		return strings.Join(readings, ",")
	}
}

func apertureHandler(quantity string) handler {
	return func(in *Instrument, c command) string {
		if _, ok := in.channel(c); !ok {
			return ""
		}
		interval := in.floatSetting(channelKey("SWE:TINT", c.channel), 1)
		aperture := interval * 1e-3 / 2
		if quantity == "VOLT" {
			aperture /= 2
		}

		return formatReading(aperture)
	}
}

// memEntryHandler appends the command to the channel's list under edit.
func memEntryHandler(in *Instrument, c command) string {
	ch, ok := in.channel(c)
	if !ok {
		return ""
	}
	if ch.editing == 0 {
		in.pushError(-221, "Settings conflict")
		return ""
	}
	list := &ch.lists[ch.editing-1]
	list.entries = append(list.entries, memEntry{header: c.header, args: c.args})

	return ""
}

// runList executes the active memory list of channel n.
func (in *Instrument) runList(n int, ch *smuChannel) {
	list := ch.lists[ch.active-1]
	start, end, loops := 1, len(list.entries), 1
	if list.start > 0 {
		start, end, loops = list.start, min(list.end, len(list.entries)), max(list.loops, 1)
	}

	for range loops {
		for _, e := range list.entries[start-1 : end] {
			c := command{header: e.header, args: e.args, channel: n}
			switch e.header {
			case "MEM:VOLT:SOUR":
				in.settings.Store(channelKey("MODE", n), "VOLT")
				in.storeFloat(channelKey("VOLT", n), c, 0)
			case "MEM:CURR:SOUR":
				in.settings.Store(channelKey("MODE", n), "CURR")
				in.storeFloat(channelKey("CURR", n), c, 0)
			case "MEM:VOLT:LIM":
				in.storeFloat(channelKey("VOLT:LIM", n), c, 0)
			case "MEM:CURR:LIM":
				in.storeFloat(channelKey("CURR:LIM", n), c, 0)
			case "MEM:VOLT:RANG":
				in.settings.Store(channelKey("VOLT:RANG", n), c.arg(0))
			case "MEM:CURR:RANG":
				in.settings.Store(channelKey("CURR:RANG", n), c.arg(0))
			case "MEM:OUTP":
				if on, ok := c.onOff(0); ok {
					in.settings.Store(channelKey("OUTP", n), formatBool(on))
				}
			case "MEM:VOLT:MEAS", "MEM:CURR:MEAS":
				reading := scpi.NoMeasurement
				if in.setting(channelKey("OUTP", n), "0") == "1" {
					reading = in.channelReading(n, strings.TrimSuffix(strings.TrimPrefix(e.header, "MEM:"), ":MEAS"))
				}
				ch.data.Enqueue(reading)
			}
		}
	}
}

var u2723Handlers = map[string]handler{
	"SOUR:VOLT:LEV:IMM:AMPL": channelSourceHandler("VOLT"),
	"SOUR:CURR:LEV:IMM:AMPL": channelSourceHandler("CURR"),
	"SOUR:VOLT:LIM":          channelFloatHandler("VOLT:LIM"),
	"SOUR:CURR:LIM":          channelFloatHandler("CURR:LIM"),
	"SOUR:VOLT:TRIG":         channelFloatHandler("VOLT:TRIG"),
	"SOUR:CURR:TRIG":         channelFloatHandler("CURR:TRIG"),
	"SOUR:VOLT:RANG":         channelTokenHandler("VOLT:RANG", "R2V", "R20V"),
	"SOUR:CURR:RANG": channelTokenHandler("CURR:RANG",
		"R1uA", "R10uA", "R100uA", "R1mA", "R10mA", "R120mA"),
	"OUTP": func(in *Instrument, c command) string {
		if _, ok := in.channel(c); !ok {
			return ""
		}
		on, ok := c.onOff(0)
		if !ok {
			in.pushError(-224, "Illegal parameter value")
			return ""
		}
		in.settings.Store(channelKey("OUTP", c.channel), formatBool(on))

		return ""
	},
	"OUTP?": func(in *Instrument, c command) string {
		if _, ok := in.channel(c); !ok {
			return "0"
		}

		return in.setting(channelKey("OUTP", c.channel), "0")
	},

	"SENS:SWE:POIN":   channelFloatHandler("SWE:POIN"),
	"SENS:SWE:TINT":   channelFloatHandler("SWE:TINT"),
	"SENS:CURR:APER?": apertureHandler("CURR"),
	"SENS:VOLT:APER?": apertureHandler("VOLT"),
	"MEAS:SCAL:CURR?": scalarHandler("CURR"),
	"MEAS:SCAL:VOLT?": scalarHandler("VOLT"),
	"MEAS:ARR:CURR?":  arrayHandler("CURR"),
	"MEAS:ARR:VOLT?":  arrayHandler("VOLT"),
	"ABOR:TRAN": func(in *Instrument, c command) string {
		if ch, ok := in.channel(c); ok {
			ch.armed = false
		}

		return ""
	},
	"INIT:TRAN": func(in *Instrument, c command) string {
		if ch, ok := in.channel(c); ok {
			ch.armed = true
		}

		return ""
	},
	"STAT:OPER:COND?": func(in *Instrument, _ command) string {
		for _, ch := range in.smu.channels {
			if ch.armed {
				return strconv.Itoa(operTransient)
			}
		}

		return "0"
	},

	"MEM:LIST": func(in *Instrument, c command) string {
		ch, ok := in.channel(c)
		if !ok {
			return ""
		}
		slot, ok := c.int(0)
		if !ok || slot < 1 || slot > 2 {
			in.pushError(-224, "Illegal parameter value")
			return ""
		}
		ch.editing = slot

		return ""
	},
	"MEM:LIST:CLEAR": func(in *Instrument, c command) string {
		ch, ok := in.channel(c)
		if !ok {
			return ""
		}
		if ch.editing == 0 {
			in.pushError(-221, "Settings conflict")
			return ""
		}
		ch.lists[ch.editing-1] = memList{}

		return ""
	},
	"MEM:VOLT:RANG":     memEntryHandler,
	"MEM:CURR:RANG":     memEntryHandler,
	"MEM:VOLT:LIM":      memEntryHandler,
	"MEM:CURR:LIM":      memEntryHandler,
	"MEM:SOUR:DEL:AUTO": memEntryHandler,
	"MEM:SOUR:DEL":      memEntryHandler,
	"MEM:VOLT:SOUR":     memEntryHandler,
	"MEM:CURR:SOUR":     memEntryHandler,
	"MEM:VOLT:MEAS":     memEntryHandler,
	"MEM:CURR:MEAS":     memEntryHandler,
	"MEM:OUTP":          memEntryHandler,
	"MEM:CONF:POIN": func(in *Instrument, c command) string {
		ch, ok := in.channel(c)
		if !ok || ch.editing == 0 {
			in.pushError(-221, "Settings conflict")
			return ""
		}
		start, ok1 := c.int(0)
		end, ok2 := c.int(1)
		loops, ok3 := c.int(2)
		list := &ch.lists[ch.editing-1]
		if !ok1 || !ok2 || !ok3 || start < 1 || end < start || end > len(list.entries) || loops < 1 {
			in.pushError(-224, "Illegal parameter value")
			return ""
		}
		list.start, list.end, list.loops = start, end, loops

		return ""
	},
	"MEM:LIST:STOR": func(in *Instrument, c command) string {
		ch, ok := in.channel(c)
		if !ok || ch.editing == 0 {
			in.pushError(-221, "Settings conflict")
			return ""
		}
		ch.lists[ch.editing-1].stored = true
		ch.active = ch.editing
		ch.editing = 0

		return ""
	},
	"MEM:TRIG": func(in *Instrument, c command) string {
		ch, ok := in.channel(c)
		if !ok {
			return ""
		}
		if ch.active == 0 || !ch.lists[ch.active-1].stored {
			in.pushError(-221, "Settings conflict")
			return ""
		}
		ch.data.Reset()
		in.runList(c.channel, ch)

		return ""
	},
	"MEM:LIST:DATA?": func(in *Instrument, c command) string {
		ch, ok := in.channel(c)
		if !ok {
			return ""
		}
		readings := make([]string, 0, ch.data.Length())
		for {
			v, ok := ch.data.Dequeue()
			if !ok {
				break
			}
			readings = append(readings, formatReading(v))
		}

		return strings.Join(readings, ",")
	},
}
