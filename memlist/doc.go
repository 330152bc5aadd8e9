// Package memlist builds U2723 memory-list programs.
//
// A memory list is an instrument-resident sequence of source, delay, measure
// and output steps that the SMU executes on its own once triggered. Every
// program is emitted in the same frame:
//
//	select slot -> clear slot -> range/limit setup -> auto delay -> steps -> store
//
// The Builder counts the list entries it emits, and the execution window of
// pulse programs is derived from that count rather than from fixed indices.
//
// Programs are plain data. They are written to an instrument by
// smu.SMU.LoadProgram and executed with smu.SMU.TriggerProgram.
package memlist
