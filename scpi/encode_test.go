package scpi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodePSU(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"cv setpoint", SourceLevel(ConstantVoltage, 5), "SOUR:VOLT:LEV:IMM:AMPL 5"},
		{"cc setpoint", SourceLevel(ConstantCurrent, 0.25), "SOUR:CURR:LEV:IMM:AMPL 0.25"},
		{"current limit", CurrentLimit(1), "SOUR:CURR:LIM 1"},
		{"voltage limit", VoltageLimit(30), "SOUR:VOLT:LIM 30"},
		{"voltage range", SetVoltageRange(VoltageRangeMax), "SOUR:VOLT:RANG MAX"},
		{"current range", SetCurrentRange(CurrentRangeDefault), "SOUR:CURR:RANG DEF"},
		{"output on", OutputState(true), "OUTP:STAT ON"},
		{"output off", OutputState(false), "OUTP:STAT OFF"},
		{"ovp", ProtectionVoltage(12.5), "VOLT:PROT 12.5 V"},
		{"ocp", ProtectionCurrent(0.5), "CURR:PROT 0.5 A"},
		{"soft start", SoftStart(4), "SST:STEP 4"},
		{"ramp", Ramp(ConstantVoltage, 10), "VOLT:RAMP 10"},
		{"ramp steps", RampSteps(ConstantCurrent, 100), "CURR:RAMP:STEP 100"},
		{"scan", Scan(ConstantCurrent, 0.5), "CURR:SCAN 0.5"},
		{"scan steps", ScanSteps(ConstantVoltage, 10), "VOLT:SCAN:STEP 10"},
		{"scan dwell", ScanDwell(ConstantVoltage, 2), "VOLT:SCAN:DWEL 2"},
		{"square amplitude", SquareAmplitude(3.3), "SQU:AMPL 3.3"},
		{"square frequency", SquareFrequency(600), "SQU:FREQ 600"},
		{"square duty", SquareDutyCycle(50), "SQU:DCYC 50"},
		{"square width", SquarePulseWidth(0.000833), "SQU:PWID 0.000833"},
		{"configure dc voltage", Configure(MeasureVoltage, MeterRangeAuto, ResolutionMin, SignalDC), "CONF:VOLT:DC AUTO, MIN"},
		{"configure ac current", Configure(MeasureCurrent, MeterRangeMax, ResolutionMax, SignalAC), "CONF:CURR:AC MAX, MAX"},
		{"configure resistance", Configure(MeasureResistance, MeterRangeMin, ResolutionMin, SignalAC), "CONF:RES MIN, MIN"},
		{"measure voltage", Measure(MeasureVoltage, MeterRangeAuto, ResolutionMin, SignalDC), "MEAS:VOLT:DC? AUTO, MIN"},
		{"measure resistance", Measure(MeasureResistance, MeterRangeAuto, ResolutionMin, SignalDC), "MEAS:RES? AUTO, MIN"},
		{"continuous on", Continuous(true), "INIT:CONT ON"},
		{"questionable enable", QuestionableEnable(QuesResistanceOverload), "STAT:QUES:ENAB 512"},
		{"calc function", SetCalcFunction(CalcDBM), "CALC:FUNC DBM"},
		{"calc off", CalcState(false), "CALC OFF"},
		{"db ref", CalcDBReference(-10), "CALC:DB:REF -10"},
		{"dbm ref", CalcDBMReference(600), "CALC:DBM:REF 600"},
		{"hold var", CalcHoldVariation(0.5), "CALC:HOLD:VAR 0.5"},
		{"hold thr", CalcHoldThreshold(1), "CALC:HOLD:THR 1"},
		{"lim upp", CalcLimitUpper(5.5), "CALC:LIM:UPP 5.5"},
		{"lim low", CalcLimitLower(-1), "CALC:LIM:LOW -1"},
		{"null", CalcNullOffset(0.01), "CALC:NULL:OFFS 0.01"},
		{"log on", LogState(true), "LOG ON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestEncodeSMU(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"source current", SMUSource(CH1, Current, 0.05), "SOUR:CURR:LEV:IMM:AMPL 0.05, (@1)"},
		{"source voltage", SMUSource(CH3, Voltage, -2.5), "SOUR:VOLT:LEV:IMM:AMPL -2.5, (@3)"},
		{"voltage limit", SMULimit(CH2, Voltage, 5), "SOUR:VOLT:LIM 5, (@2)"},
		{"trigger current", SMUTrigger(CH2, Current, 0.01), "SOUR:CURR:TRIG 0.01, (@2)"},
		{"output on", SMUOutput(CH1, true), "OUTP 1, (@1)"},
		{"output off", SMUOutput(CH2, false), "OUTP 0, (@2)"},
		{"output query", SMUOutputQuery(CH3), "OUTP? (@3)"},
		{"sweep points", SweepPoints(CH1, 4096), "SENS:SWE:POIN 4096, (@1)"},
		{"sweep interval", SweepInterval(CH1, 10), "SENS:SWE:TINT 10, (@1)"},
		{"aperture", ApertureQuery(CH2, Current), "SENS:CURR:APER? (@2)"},
		{"scalar", MeasureScalar(CH1, Voltage), "MEAS:SCAL:VOLT? (@1)"},
		{"array", MeasureArray(CH2, Current), "MEAS:ARR:CURR? (@2)"},
		{"abort", AbortTransient(CH1), "ABOR:TRAN (@1)"},
		{"init", InitiateTransient(CH3), "INIT:TRAN (@3)"},
		{"mem select", MemSelect(CH2, Mem1), "MEM:LIST 1, (@2)"},
		{"mem clear", MemClear(CH2), "MEM:LIST:CLEAR (@2)"},
		{"mem vrange", MemVoltageRange(CH2, R20V), "MEM:VOLT:RANG R20V, (@2)"},
		{"mem irange", MemCurrentRange(CH2, R120mA), "MEM:CURR:RANG R120mA, (@2)"},
		{"mem limit", MemLimit(CH2, Current, 0.1), "MEM:CURR:LIM 0.1, (@2)"},
		{"mem auto delay", MemAutoDelay(CH2, true), "MEM:SOUR:DEL:AUTO ON, (@2)"},
		{"mem delay", MemDelay(CH2, 5), "MEM:SOUR:DEL SING,5,(@2)"},
		{"mem source", MemSource(CH2, Current, 0), "MEM:CURR:SOUR 0, (@2)"},
		{"mem measure", MemMeasure(CH1, Voltage), "MEM:VOLT:MEAS (@1)"},
		{"mem output", MemOutput(CH1, false), "MEM:OUTP OFF, (@1)"},
		{"mem window", MemWindow(CH2, 1, 8, 2), "MEM:CONF:POIN 1,8,2,(@2)"},
		{"mem store", MemStore(CH2), "MEM:LIST:STOR (@2)"},
		{"mem trigger", MemTrigger(CH1), "MEM:TRIG (@1)"},
		{"mem data", MemData(CH1), "MEM:LIST:DATA? (@1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

// Every channel and every channel-scoped option must appear verbatim in the
// emitted command.
func TestEncodeSMU_ChannelOptionMatrix(t *testing.T) {
	for _, ch := range ChannelValues() {
		suffix := "(@" + ch.Token() + ")"

		for _, r := range SMUVoltageRangeValues() {
			for _, cmd := range []string{SetSMUVoltageRange(ch, r), MemVoltageRange(ch, r)} {
				assert.Contains(t, cmd, " "+r.Token()+",")
				assert.True(t, strings.HasSuffix(cmd, suffix), cmd)
			}
		}

		for _, r := range SMUCurrentRangeValues() {
			for _, cmd := range []string{SetSMUCurrentRange(ch, r), MemCurrentRange(ch, r)} {
				assert.Contains(t, cmd, " "+r.Token()+",")
				assert.True(t, strings.HasSuffix(cmd, suffix), cmd)
			}
		}

		for _, slot := range MemorySlotValues() {
			cmd := MemSelect(ch, slot)
			assert.Equal(t, "MEM:LIST "+slot.Token()+", "+suffix, cmd)
		}

		for _, q := range QuantityValues() {
			for _, cmd := range []string{
				SMUSource(ch, q, 1), SMULimit(ch, q, 1), MeasureScalar(ch, q),
				MeasureArray(ch, q), ApertureQuery(ch, q), MemMeasure(ch, q), MemSource(ch, q, 1),
			} {
				assert.Contains(t, cmd, q.Token())
				assert.True(t, strings.HasSuffix(cmd, suffix), cmd)
			}
		}
	}
}

func TestEncodePSU_OptionMatrix(t *testing.T) {
	for _, mode := range MeasureModeValues() {
		for _, r := range MeterRangeValues() {
			for _, res := range ResolutionValues() {
				for _, sig := range SignalTypeValues() {
					cmd := Configure(mode, r, res, sig)
					assert.True(t, strings.HasPrefix(cmd, "CONF:"+mode.Token()), cmd)
					assert.True(t, strings.HasSuffix(cmd, " "+r.Token()+", "+res.Token()), cmd)
					if mode.HasSignalType() {
						assert.Contains(t, cmd, ":"+sig.Token()+" ")
					}
				}
			}
		}
	}

	for _, b := range QuestionableBitValues() {
		assert.Equal(t, "STAT:QUES:ENAB "+b.Token(), QuestionableEnable(b))
	}
	for _, f := range CalcFunctionValues() {
		assert.Equal(t, "CALC:FUNC "+f.Token(), SetCalcFunction(f))
	}
}

func TestIsQuery(t *testing.T) {
	assert.True(t, IsQuery("*IDN?"))
	assert.True(t, IsQuery("MEAS:SCAL:VOLT? (@1)"))
	assert.True(t, IsQuery(" SYST:ERR?\n"))
	assert.False(t, IsQuery("OUTP 1, (@1)"))
	assert.False(t, IsQuery("*RST"))
}
