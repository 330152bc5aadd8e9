package scpi

import "strconv"

// Channel is a U2723 output channel. Its token is the channel index used in
// the "(@n)" channel list suffix.
type Channel uint8

const (
	CH1 Channel = iota + 1
	CH2
	CH3
)

var channelTable = table[Channel]{kind: "channel", first: CH1, entries: []entry{
	{"CH1", "1"},
	{"CH2", "2"},
	{"CH3", "3"},
}}

func (c Channel) Token() string  { return channelTable.token(c) }
func (c Channel) String() string { return channelTable.name(c) }
func (c Channel) Valid() bool    { return channelTable.valid(c) }
func (Channel) kind() string     { return channelTable.kind }

// Index returns the zero-based array index of the channel.
func (c Channel) Index() int { return int(c) - 1 }

// ChannelValues returns every Channel.
func ChannelValues() []Channel { return channelTable.values() }

// ParseChannel resolves a channel from "CH2" or "2".
func ParseChannel(s string) (Channel, error) { return channelTable.lookup(s) }

// ChannelFromInt converts a 1-based channel number.
func ChannelFromInt(n int) (Channel, error) {
	return channelTable.lookup(strconv.Itoa(n))
}

// SourceMode selects what a U2723 channel sources and what it measures.
type SourceMode uint8

const (
	SVMI SourceMode = iota + 1 // source voltage, measure current
	SIMV                       // source current, measure voltage
)

var sourceModeTable = table[SourceMode]{kind: "source mode", first: SVMI, entries: []entry{
	{"SVMI", "VOLT"},
	{"SIMV", "CURR"},
}}

// Token returns the token of the sourced quantity.
func (m SourceMode) Token() string  { return sourceModeTable.token(m) }
func (m SourceMode) String() string { return sourceModeTable.name(m) }
func (m SourceMode) Valid() bool    { return sourceModeTable.valid(m) }
func (SourceMode) kind() string     { return sourceModeTable.kind }

// Sourced returns the quantity the channel sources.
func (m SourceMode) Sourced() Quantity {
	if m == SIMV {
		return Current
	}

	return Voltage
}

// Measured returns the quantity the channel measures.
func (m SourceMode) Measured() Quantity {
	if m == SIMV {
		return Voltage
	}

	return Current
}

// SourceModeValues returns every SourceMode.
func SourceModeValues() []SourceMode { return sourceModeTable.values() }

// ParseSourceMode resolves a SourceMode by name or token.
func ParseSourceMode(s string) (SourceMode, error) { return sourceModeTable.lookup(s) }

// Quantity is an electrical quantity addressed by U2723 source and measure commands.
type Quantity uint8

const (
	Voltage Quantity = iota + 1
	Current
)

var quantityTable = table[Quantity]{kind: "quantity", first: Voltage, entries: []entry{
	{"Voltage", "VOLT"},
	{"Current", "CURR"},
}}

func (q Quantity) Token() string  { return quantityTable.token(q) }
func (q Quantity) String() string { return quantityTable.name(q) }
func (q Quantity) Valid() bool    { return quantityTable.valid(q) }
func (Quantity) kind() string     { return quantityTable.kind }

// QuantityValues returns every Quantity.
func QuantityValues() []Quantity { return quantityTable.values() }

// SMUVoltageRange is a U2723 voltage range.
type SMUVoltageRange uint8

const (
	R2V SMUVoltageRange = iota + 1
	R20V
)

var smuVoltageRangeTable = table[SMUVoltageRange]{kind: "SMU voltage range", first: R2V, entries: []entry{
	{"R2V", "R2V"},
	{"R20V", "R20V"},
}}

func (r SMUVoltageRange) Token() string  { return smuVoltageRangeTable.token(r) }
func (r SMUVoltageRange) String() string { return smuVoltageRangeTable.name(r) }
func (r SMUVoltageRange) Valid() bool    { return smuVoltageRangeTable.valid(r) }
func (SMUVoltageRange) kind() string     { return smuVoltageRangeTable.kind }

// SMUVoltageRangeValues returns every SMUVoltageRange.
func SMUVoltageRangeValues() []SMUVoltageRange { return smuVoltageRangeTable.values() }

// ParseSMUVoltageRange resolves a range from its token, e.g. "R20V".
func ParseSMUVoltageRange(s string) (SMUVoltageRange, error) { return smuVoltageRangeTable.lookup(s) }

// SMUCurrentRange is a U2723 current range.
type SMUCurrentRange uint8

const (
	R1uA SMUCurrentRange = iota + 1
	R10uA
	R100uA
	R1mA
	R10mA
	R120mA
)

var smuCurrentRangeTable = table[SMUCurrentRange]{kind: "SMU current range", first: R1uA, entries: []entry{
	{"R1uA", "R1uA"},
	{"R10uA", "R10uA"},
	{"R100uA", "R100uA"},
	{"R1mA", "R1mA"},
	{"R10mA", "R10mA"},
	{"R120mA", "R120mA"},
}}

func (r SMUCurrentRange) Token() string  { return smuCurrentRangeTable.token(r) }
func (r SMUCurrentRange) String() string { return smuCurrentRangeTable.name(r) }
func (r SMUCurrentRange) Valid() bool    { return smuCurrentRangeTable.valid(r) }
func (SMUCurrentRange) kind() string     { return smuCurrentRangeTable.kind }

// SMUCurrentRangeValues returns every SMUCurrentRange.
func SMUCurrentRangeValues() []SMUCurrentRange { return smuCurrentRangeTable.values() }

// ParseSMUCurrentRange resolves a range from its token, e.g. "R120mA".
func ParseSMUCurrentRange(s string) (SMUCurrentRange, error) { return smuCurrentRangeTable.lookup(s) }

// MemorySlot is one of the two U2723 memory lists.
type MemorySlot uint8

const (
	Mem1 MemorySlot = iota + 1
	Mem2
)

var memorySlotTable = table[MemorySlot]{kind: "memory slot", first: Mem1, entries: []entry{
	{"Mem1", "1"},
	{"Mem2", "2"},
}}

func (m MemorySlot) Token() string  { return memorySlotTable.token(m) }
func (m MemorySlot) String() string { return memorySlotTable.name(m) }
func (m MemorySlot) Valid() bool    { return memorySlotTable.valid(m) }
func (MemorySlot) kind() string     { return memorySlotTable.kind }

// MemorySlotValues returns every MemorySlot.
func MemorySlotValues() []MemorySlot { return memorySlotTable.values() }

// ParseMemorySlot resolves a slot from its name or number, e.g. "2".
func ParseMemorySlot(s string) (MemorySlot, error) { return memorySlotTable.lookup(s) }
