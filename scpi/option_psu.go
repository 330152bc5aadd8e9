package scpi

// OutputMode is the regulation mode of the U3606 DC output.
type OutputMode uint8

const (
	ConstantVoltage OutputMode = iota + 1
	ConstantCurrent
)

var outputModeTable = table[OutputMode]{kind: "output mode", first: ConstantVoltage, entries: []entry{
	{"ConstantVoltage", "VOLT"},
	{"ConstantCurrent", "CURR"},
}}

func (m OutputMode) Token() string  { return outputModeTable.token(m) }
func (m OutputMode) String() string { return outputModeTable.name(m) }
func (m OutputMode) Valid() bool    { return outputModeTable.valid(m) }
func (OutputMode) kind() string     { return outputModeTable.kind }

// OutputModeValues returns every OutputMode.
func OutputModeValues() []OutputMode { return outputModeTable.values() }

// ParseOutputMode resolves an OutputMode by name or token.
func ParseOutputMode(s string) (OutputMode, error) { return outputModeTable.lookup(s) }

// VoltageRange selects the U3606 DC output voltage range. The zero value is auto ranging.
type VoltageRange uint8

const (
	VoltageRangeAuto VoltageRange = iota
	VoltageRangeMax               // 30 V
	VoltageRangeMin               // 1 V
)

var voltageRangeTable = table[VoltageRange]{kind: "voltage range", first: VoltageRangeAuto, entries: []entry{
	{"Auto", "AUTO"},
	{"Max", "MAX"},
	{"Min", "MIN"},
}}

func (r VoltageRange) Token() string  { return voltageRangeTable.token(r) }
func (r VoltageRange) String() string { return voltageRangeTable.name(r) }
func (r VoltageRange) Valid() bool    { return voltageRangeTable.valid(r) }
func (VoltageRange) kind() string     { return voltageRangeTable.kind }

// VoltageRangeValues returns every VoltageRange.
func VoltageRangeValues() []VoltageRange { return voltageRangeTable.values() }

// CurrentRange selects the U3606 DC output current range. The zero value is auto ranging.
type CurrentRange uint8

const (
	CurrentRangeAuto    CurrentRange = iota
	CurrentRangeMax                  // 3 A
	CurrentRangeDefault              // 1 A
	CurrentRangeMin                  // 100 mA
)

var currentRangeTable = table[CurrentRange]{kind: "current range", first: CurrentRangeAuto, entries: []entry{
	{"Auto", "AUTO"},
	{"Max", "MAX"},
	{"Default", "DEF"},
	{"Min", "MIN"},
}}

func (r CurrentRange) Token() string  { return currentRangeTable.token(r) }
func (r CurrentRange) String() string { return currentRangeTable.name(r) }
func (r CurrentRange) Valid() bool    { return currentRangeTable.valid(r) }
func (CurrentRange) kind() string     { return currentRangeTable.kind }

// CurrentRangeValues returns every CurrentRange.
func CurrentRangeValues() []CurrentRange { return currentRangeTable.values() }

// MeasureMode is the quantity measured by the U3606 multimeter.
type MeasureMode uint8

const (
	MeasureVoltage MeasureMode = iota + 1
	MeasureCurrent
	MeasureResistance
)

var measureModeTable = table[MeasureMode]{kind: "measure mode", first: MeasureVoltage, entries: []entry{
	{"Voltage", "VOLT"},
	{"Current", "CURR"},
	{"Resistance", "RES"},
}}

func (m MeasureMode) Token() string  { return measureModeTable.token(m) }
func (m MeasureMode) String() string { return measureModeTable.name(m) }
func (m MeasureMode) Valid() bool    { return measureModeTable.valid(m) }
func (MeasureMode) kind() string     { return measureModeTable.kind }

// HasSignalType reports whether the mode carries an AC/DC axis.
func (m MeasureMode) HasSignalType() bool { return m == MeasureVoltage || m == MeasureCurrent }

// MeasureModeValues returns every MeasureMode.
func MeasureModeValues() []MeasureMode { return measureModeTable.values() }

// ParseMeasureMode resolves a MeasureMode by name (case-sensitive) or token.
func ParseMeasureMode(s string) (MeasureMode, error) { return measureModeTable.lookup(s) }

// MeterRange selects the multimeter measurement range. The zero value is auto ranging.
type MeterRange uint8

const (
	MeterRangeAuto MeterRange = iota
	MeterRangeMax
	MeterRangeMin
)

var meterRangeTable = table[MeterRange]{kind: "meter range", first: MeterRangeAuto, entries: []entry{
	{"Auto", "AUTO"},
	{"Max", "MAX"},
	{"Min", "MIN"},
}}

func (r MeterRange) Token() string  { return meterRangeTable.token(r) }
func (r MeterRange) String() string { return meterRangeTable.name(r) }
func (r MeterRange) Valid() bool    { return meterRangeTable.valid(r) }
func (MeterRange) kind() string     { return meterRangeTable.kind }

// MeterRangeValues returns every MeterRange.
func MeterRangeValues() []MeterRange { return meterRangeTable.values() }

// Resolution selects the multimeter resolution. The zero value is the
// instrument default of 5½ digits.
type Resolution uint8

const (
	ResolutionMin Resolution = iota // 5½ digits
	ResolutionMax                   // 4½ digits
)

var resolutionTable = table[Resolution]{kind: "resolution", first: ResolutionMin, entries: []entry{
	{"Min", "MIN"},
	{"Max", "MAX"},
}}

func (r Resolution) Token() string  { return resolutionTable.token(r) }
func (r Resolution) String() string { return resolutionTable.name(r) }
func (r Resolution) Valid() bool    { return resolutionTable.valid(r) }
func (Resolution) kind() string     { return resolutionTable.kind }

// ResolutionValues returns every Resolution.
func ResolutionValues() []Resolution { return resolutionTable.values() }

// SignalType is the AC/DC axis of voltage and current measurements. The zero value is DC.
type SignalType uint8

const (
	SignalDC SignalType = iota
	SignalAC
)

var signalTypeTable = table[SignalType]{kind: "signal type", first: SignalDC, entries: []entry{
	{"DC", "DC"},
	{"AC", "AC"},
}}

func (s SignalType) Token() string  { return signalTypeTable.token(s) }
func (s SignalType) String() string { return signalTypeTable.name(s) }
func (s SignalType) Valid() bool    { return signalTypeTable.valid(s) }
func (SignalType) kind() string     { return signalTypeTable.kind }

// SignalTypeValues returns every SignalType.
func SignalTypeValues() []SignalType { return signalTypeTable.values() }

// ParseSignalType resolves a SignalType by name or token.
func ParseSignalType(s string) (SignalType, error) { return signalTypeTable.lookup(s) }

// CalcFunction is a multimeter math function.
type CalcFunction uint8

const (
	CalcAverage CalcFunction = iota + 1 // mean, min and max of all readings since enabled
	CalcDB                              // reading relative to the dB reference
	CalcDBM                             // power into the dBm reference resistance
	CalcHold                            // capture a reading once stable within the hold variation
	CalcLimit                           // compare each reading with the upper and lower limits
	CalcNull                            // reading minus the null offset
)

var calcFunctionTable = table[CalcFunction]{kind: "calc function", first: CalcAverage, entries: []entry{
	{"Average", "AVER"},
	{"DB", "DB"},
	{"DBM", "DBM"},
	{"Hold", "HOLD"},
	{"Limit", "LIM"},
	{"Null", "NULL"},
}}

func (f CalcFunction) Token() string  { return calcFunctionTable.token(f) }
func (f CalcFunction) String() string { return calcFunctionTable.name(f) }
func (f CalcFunction) Valid() bool    { return calcFunctionTable.valid(f) }
func (CalcFunction) kind() string     { return calcFunctionTable.kind }

// CalcFunctionValues returns every CalcFunction.
func CalcFunctionValues() []CalcFunction { return calcFunctionTable.values() }

// ParseCalcFunction resolves a CalcFunction from its name or the token
// returned by the CALC:FUNC? query.
func ParseCalcFunction(s string) (CalcFunction, error) { return calcFunctionTable.lookup(s) }

// QuestionableBit is a bit of the U3606 questionable status register.
type QuestionableBit uint8

const (
	QuesVoltageOverload QuestionableBit = iota + 1
	QuesCurrentOverload
	QuesResistanceOverload
	QuesOutputOverVoltage
	QuesOutputOverCurrent
	QuesUpperLimitFailed
	QuesLowerLimitFailed
)

var questionableBitTable = table[QuestionableBit]{kind: "questionable bit", first: QuesVoltageOverload, entries: []entry{
	{"VoltageOverload", "1"},
	{"CurrentOverload", "2"},
	{"ResistanceOverload", "512"},
	{"OutputOverVoltage", "4"},
	{"OutputOverCurrent", "8"},
	{"UpperLimitFailed", "4096"},
	{"LowerLimitFailed", "2048"},
}}

func (b QuestionableBit) Token() string  { return questionableBitTable.token(b) }
func (b QuestionableBit) String() string { return questionableBitTable.name(b) }
func (b QuestionableBit) Valid() bool    { return questionableBitTable.valid(b) }
func (QuestionableBit) kind() string     { return questionableBitTable.kind }

// Mask returns the register weight of the bit, or 0 for an invalid value.
func (b QuestionableBit) Mask() int {
	switch b {
	case QuesVoltageOverload:
		return 1
	case QuesCurrentOverload:
		return 2
	case QuesResistanceOverload:
		return 512
	case QuesOutputOverVoltage:
		return 4
	case QuesOutputOverCurrent:
		return 8
	case QuesUpperLimitFailed:
		return 4096
	case QuesLowerLimitFailed:
		return 2048
	}

	return 0
}

// In reports whether the bit is set in a register value.
func (b QuestionableBit) In(register int) bool {
	m := b.Mask()
	return m != 0 && register&m == m
}

// QuestionableBitValues returns every QuestionableBit.
func QuestionableBitValues() []QuestionableBit { return questionableBitTable.values() }
