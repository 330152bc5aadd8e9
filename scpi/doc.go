// Package scpi provides the stateless protocol layer shared by the U3606
// supply/multimeter and the U2723 source-measure unit drivers.
//
// The package contains four things:
//
//   - Closed option types (OutputMode, MeasureMode, Channel, SMUCurrentRange, ...)
//     each backed by an explicit value→token table. Every type exposes Token,
//     String, Valid and a static XxxValues list.
//   - Encoders: one pure function per instrument operation mapping options,
//     numeric parameters and an optional channel to a single command string of
//     the form "<SUBSYSTEM>:<ACTION> <params>[, (@<channel>)]".
//   - Reply parsers for scalar floats, comma separated float arrays, integer
//     status words, "<code>,\"<message>\"" error records, identification
//     strings and logged-data tokens.
//   - The safety validator: hard bounds for every setpoint, checked before a
//     command is encoded.
//
// Encoders never validate; callers run CheckOptions and the Bounds checks first
// so that a rejected configuration never reaches the instrument.
//
// Sentinel replies such as +9.99999999E+10 ("no measurement") or +9.9E+37
// (overload) are returned unmodified by the parsers. IsNoMeasurement and
// IsOverload help callers interpret them.
package scpi
