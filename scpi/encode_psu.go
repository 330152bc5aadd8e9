package scpi

import (
	"fmt"
	"strconv"
)

// U3606 queries that take no parameters.
const (
	QueryOutputState           = "OUTP?"
	QueryOverVoltageLimit      = "VOLT:LIM?"
	QueryOverCurrentLimit      = "CURR:LIM?"
	QueryOutputVoltage         = "VOLT?"
	QueryOutputCurrent         = "CURR?"
	QuerySenseVoltage          = "SENS:VOLT?"
	QuerySenseCurrent          = "SENS:CURR?"
	QueryMeterConfiguration    = "CONF?"
	QueryContinuous            = "INIT:CONT?"
	QueryFetch                 = "FETC?"
	QueryRead                  = "READ?"
	QueryQuestionableEnable    = "STAT:QUES:ENAB?"
	QueryQuestionableEvent     = "STAT:QUES?"
	QueryQuestionableCondition = "STAT:QUES:COND?"
	QueryCalcFunction          = "CALC:FUNC?"
	QueryCalcState             = "CALC?"
	QueryCalcAverage           = "CALC:AVER:AVER?"
	QueryCalcMaximum           = "CALC:AVER:MAX?"
	QueryCalcMinimum           = "CALC:AVER:MIN?"
	QueryCalcPresent           = "CALC:AVER:PRES?"
	QueryLogState              = "LOG?"
	QueryLogData               = "LOG:DATA?"
)

// U3606 commands that take no parameters.
const (
	CmdAbort     = "ABOR"
	CmdLogDelete = "LOG:DATA:DEL"
	CmdLogRewind = "LOG:LOAD DATA"
)

// OutputState encodes the DC output on/off switch.
func OutputState(on bool) string {
	return "OUTP:STAT " + onOff(on)
}

// SourceLevel encodes the immediate output setpoint for the regulated quantity.
func SourceLevel(mode OutputMode, v float64) string {
	return fmt.Sprintf("SOUR:%s:LEV:IMM:AMPL %s", mode.Token(), FormatFloat(v))
}

// VoltageLimit encodes the output voltage limit used while regulating current.
func VoltageLimit(v float64) string {
	return "SOUR:VOLT:LIM " + FormatFloat(v)
}

// CurrentLimit encodes the output current limit used while regulating voltage.
func CurrentLimit(v float64) string {
	return "SOUR:CURR:LIM " + FormatFloat(v)
}

// SetVoltageRange encodes the supply voltage range.
func SetVoltageRange(r VoltageRange) string {
	return "SOUR:VOLT:RANG " + r.Token()
}

// SetCurrentRange encodes the supply current range.
func SetCurrentRange(r CurrentRange) string {
	return "SOUR:CURR:RANG " + r.Token()
}

// ProtectionVoltage encodes the over-voltage protection level.
func ProtectionVoltage(v float64) string {
	return "VOLT:PROT " + FormatFloat(v) + " V"
}

// ProtectionCurrent encodes the over-current protection level.
func ProtectionCurrent(v float64) string {
	return "CURR:PROT " + FormatFloat(v) + " A"
}

// SoftStart encodes the number of soft-start steps applied when the output is enabled.
func SoftStart(steps int) string {
	return "SST:STEP " + strconv.Itoa(steps)
}

// Ramp encodes the ramp target level.
func Ramp(mode OutputMode, level float64) string {
	return mode.Token() + ":RAMP " + FormatFloat(level)
}

// RampSteps encodes the number of ramp steps.
func RampSteps(mode OutputMode, steps int) string {
	return mode.Token() + ":RAMP:STEP " + strconv.Itoa(steps)
}

// Scan encodes the scan target level.
func Scan(mode OutputMode, level float64) string {
	return mode.Token() + ":SCAN " + FormatFloat(level)
}

// ScanSteps encodes the number of scan steps.
func ScanSteps(mode OutputMode, steps int) string {
	return mode.Token() + ":SCAN:STEP " + strconv.Itoa(steps)
}

// ScanDwell encodes the dwell time per scan step in seconds.
func ScanDwell(mode OutputMode, seconds float64) string {
	return mode.Token() + ":SCAN:DWEL " + FormatFloat(seconds)
}

// SquareAmplitude encodes the square wave amplitude in volts.
func SquareAmplitude(v float64) string { return "SQU:AMPL " + FormatFloat(v) }

// SquareFrequency encodes the square wave frequency in hertz.
func SquareFrequency(hz float64) string { return "SQU:FREQ " + FormatFloat(hz) }

// SquareDutyCycle encodes the square wave duty cycle in percent.
func SquareDutyCycle(pct float64) string { return "SQU:DCYC " + FormatFloat(pct) }

// SquarePulseWidth encodes the square wave pulse width in seconds.
func SquarePulseWidth(sec float64) string { return "SQU:PWID " + FormatFloat(sec) }

// Configure encodes a multimeter configure command. Resistance carries no
// signal type and sig is ignored for it.
func Configure(mode MeasureMode, r MeterRange, res Resolution, sig SignalType) string {
	return "CONF:" + measureFunction(mode, sig) + " " + r.Token() + ", " + res.Token()
}

// Measure encodes a one-shot configure-and-read query.
func Measure(mode MeasureMode, r MeterRange, res Resolution, sig SignalType) string {
	return "MEAS:" + measureFunction(mode, sig) + "? " + r.Token() + ", " + res.Token()
}

func measureFunction(mode MeasureMode, sig SignalType) string {
	if !mode.HasSignalType() {
		return mode.Token()
	}

	return mode.Token() + ":" + sig.Token()
}

// Continuous encodes the continuous acquisition toggle.
func Continuous(on bool) string {
	return "INIT:CONT " + onOff(on)
}

// QuestionableEnable encodes enabling a questionable status register bit.
func QuestionableEnable(b QuestionableBit) string {
	return "STAT:QUES:ENAB " + b.Token()
}

// SetCalcFunction selects the calc function. The encoders after it cover the
// calc switch and the per-function parameters.
func SetCalcFunction(f CalcFunction) string { return "CALC:FUNC " + f.Token() }
func CalcState(on bool) string              { return "CALC " + onOff(on) }
func CalcDBReference(v float64) string      { return "CALC:DB:REF " + FormatFloat(v) }
func CalcDBMReference(ohm int) string       { return "CALC:DBM:REF " + strconv.Itoa(ohm) }
func CalcHoldVariation(pct float64) string  { return "CALC:HOLD:VAR " + FormatFloat(pct) }
func CalcHoldThreshold(pct float64) string  { return "CALC:HOLD:THR " + FormatFloat(pct) }
func CalcLimitUpper(v float64) string       { return "CALC:LIM:UPP " + FormatFloat(v) }
func CalcLimitLower(v float64) string       { return "CALC:LIM:LOW " + FormatFloat(v) }
func CalcNullOffset(v float64) string       { return "CALC:NULL:OFFS " + FormatFloat(v) }

// LogState encodes the data logging toggle.
func LogState(on bool) string {
	return "LOG " + onOff(on)
}
