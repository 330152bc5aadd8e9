// Package trace records the command traffic of instrument sessions.
//
// Every write, query, reply and transport error passing through a traced
// transport becomes an Event. Events are CBOR encoded with integer keys and
// appended to a file by FileRecorder; Reader streams them back, optionally
// filtered by session or kind. Each traced transport gets its own session ID
// so several instruments can share one trace file.
package trace
