// Package sim provides simulated U3606 and U2723 instruments and an
// in-memory transport.Directory.
//
// A simulated instrument parses the same command strings the drivers emit,
// keeps its settings in a concurrent map that tests can inspect, records every
// command it receives, and maintains a 20 entry error queue that drops the
// oldest record when full. Unknown commands queue -113 "Undefined header";
// queries the instrument cannot answer time out like real hardware would.
//
// The U3606 model drives a resistive load from its DC output so sensed and
// measured values follow the configured setpoint and limits. The U2723 model
// keeps three independent channels and executes stored memory lists,
// reporting +9.99999999E+10 for measurement steps taken with the output off.
package sim
