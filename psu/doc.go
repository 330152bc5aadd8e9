// Package psu drives the Keysight U3606 DC power supply and multimeter.
//
// Output configuration always passes through the disabled state: every
// Configure* call switches the output off before writing, and leaves it off
// until EnableOutput is called. Multimeter configuration is independent of
// the output state.
//
// Arguments are validated before the first command is sent, so a rejected
// call never leaves the instrument partially configured.
package psu
