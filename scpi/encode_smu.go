package scpi

import (
	"fmt"
	"strconv"
)

// QueryOperationCondition reads the U2723 operation status condition register.
const QueryOperationCondition = "STAT:OPER:COND?"

// SMUSource encodes a channel source level for the given quantity.
func SMUSource(ch Channel, q Quantity, v float64) string {
	return "SOUR:" + q.Token() + ":LEV:IMM:AMPL " + FormatFloat(v) + channelSuffix(ch)
}

// SMULimit encodes a channel compliance limit for the given quantity.
func SMULimit(ch Channel, q Quantity, v float64) string {
	return "SOUR:" + q.Token() + ":LIM " + FormatFloat(v) + channelSuffix(ch)
}

// SMUTrigger encodes the level applied when a transient trigger fires.
func SMUTrigger(ch Channel, q Quantity, v float64) string {
	return "SOUR:" + q.Token() + ":TRIG " + FormatFloat(v) + channelSuffix(ch)
}

// SetSMUVoltageRange encodes the voltage range of one channel.
func SetSMUVoltageRange(ch Channel, r SMUVoltageRange) string {
	return "SOUR:VOLT:RANG " + r.Token() + channelSuffix(ch)
}

// SetSMUCurrentRange encodes the current range of one channel.
func SetSMUCurrentRange(ch Channel, r SMUCurrentRange) string {
	return "SOUR:CURR:RANG " + r.Token() + channelSuffix(ch)
}

// SMUOutput encodes the per-channel output switch.
func SMUOutput(ch Channel, on bool) string {
	if on {
		return "OUTP 1" + channelSuffix(ch)
	}

	return "OUTP 0" + channelSuffix(ch)
}

// SMUOutputQuery queries the output state of one channel.
func SMUOutputQuery(ch Channel) string {
	return "OUTP? " + channelList(ch)
}

// SweepPoints encodes the number of points in an array measurement.
func SweepPoints(ch Channel, n int) string {
	return "SENS:SWE:POIN " + strconv.Itoa(n) + channelSuffix(ch)
}

// SweepInterval encodes the array measurement sample interval in milliseconds.
func SweepInterval(ch Channel, ms int) string {
	return "SENS:SWE:TINT " + strconv.Itoa(ms) + channelSuffix(ch)
}

// ApertureQuery reads the integration time, in seconds, of one sample.
func ApertureQuery(ch Channel, q Quantity) string {
	return "SENS:" + q.Token() + ":APER? " + channelList(ch)
}

// MeasureScalar queries a single reading.
func MeasureScalar(ch Channel, q Quantity) string {
	return "MEAS:SCAL:" + q.Token() + "? " + channelList(ch)
}

// MeasureArray queries a sweep of readings as configured by SweepPoints and SweepInterval.
func MeasureArray(ch Channel, q Quantity) string {
	return "MEAS:ARR:" + q.Token() + "? " + channelList(ch)
}

// AbortTransient returns the channel's transient trigger system to idle.
func AbortTransient(ch Channel) string {
	return "ABOR:TRAN " + channelList(ch)
}

// InitiateTransient arms the channel's transient trigger system.
func InitiateTransient(ch Channel) string {
	return "INIT:TRAN " + channelList(ch)
}

// Memory list commands. Entries written between MemSelect/MemClear and
// MemStore become steps of the stored program.

// MemSelect selects the memory list slot to edit on ch.
func MemSelect(ch Channel, slot MemorySlot) string {
	return "MEM:LIST " + slot.Token() + channelSuffix(ch)
}

// MemClear empties the selected memory list.
func MemClear(ch Channel) string {
	return "MEM:LIST:CLEAR " + channelList(ch)
}

// MemVoltageRange adds a voltage range step.
func MemVoltageRange(ch Channel, r SMUVoltageRange) string {
	return "MEM:VOLT:RANG " + r.Token() + channelSuffix(ch)
}

// MemCurrentRange adds a current range step.
func MemCurrentRange(ch Channel, r SMUCurrentRange) string {
	return "MEM:CURR:RANG " + r.Token() + channelSuffix(ch)
}

// MemLimit adds a compliance limit step for quantity q.
func MemLimit(ch Channel, q Quantity, v float64) string {
	return "MEM:" + q.Token() + ":LIM " + FormatFloat(v) + channelSuffix(ch)
}

// MemAutoDelay adds a step toggling the automatic source delay.
func MemAutoDelay(ch Channel, on bool) string {
	return "MEM:SOUR:DEL:AUTO " + onOff(on) + channelSuffix(ch)
}

// MemDelay inserts a single timed delay of ms milliseconds.
func MemDelay(ch Channel, ms float64) string {
	return "MEM:SOUR:DEL SING," + FormatFloat(ms) + "," + channelList(ch)
}

// MemSource adds a source level step for quantity q.
func MemSource(ch Channel, q Quantity, v float64) string {
	return "MEM:" + q.Token() + ":SOUR " + FormatFloat(v) + channelSuffix(ch)
}

// MemMeasure adds a measurement step for quantity q.
func MemMeasure(ch Channel, q Quantity) string {
	return "MEM:" + q.Token() + ":MEAS " + channelList(ch)
}

// MemOutput adds a step switching the channel output.
func MemOutput(ch Channel, on bool) string {
	return "MEM:OUTP " + onOff(on) + channelSuffix(ch)
}

// MemWindow configures the first and last executed step and the loop count.
// Step indices are 1-based.
func MemWindow(ch Channel, start, end, loops int) string {
	return fmt.Sprintf("MEM:CONF:POIN %d,%d,%d,%s", start, end, loops, channelList(ch))
}

// MemStore saves the edited list into the selected slot.
func MemStore(ch Channel) string {
	return "MEM:LIST:STOR " + channelList(ch)
}

// MemTrigger executes the channel's active memory list.
func MemTrigger(ch Channel) string {
	return "MEM:TRIG " + channelList(ch)
}

// MemData queries the readings captured by the last memory list execution.
func MemData(ch Channel) string {
	return "MEM:LIST:DATA? " + channelList(ch)
}
