// Package transport defines the byte-oriented request/response boundary
// between instrument sessions and the bus that carries their commands.
package transport

import (
	"context"
	"strings"
	"time"
)

// Endpoint describes one connected instrument as reported by a Directory.
// An Endpoint is immutable once it has been matched by a session.
type Endpoint struct {
	// Address is the VISA-style resource address, e.g.
	// "USB0::0x2A8D::0x1601::MY12345678::0::INSTR".
	Address string
	// Model and Serial are taken from the bus descriptors and may be empty
	// when the bus does not expose them.
	Model  string
	Serial string
}

// Matches reports whether the endpoint address lives on the given bus and
// contains the serial number as a substring.
func (e Endpoint) Matches(busPrefix, serial string) bool {
	return strings.HasPrefix(e.Address, busPrefix) && strings.Contains(e.Address, serial)
}

// Transport is one open request/response channel to an instrument.
//
// Implementations are not safe for concurrent use; callers serialize access.
type Transport interface {
	// Write sends a command that produces no reply.
	Write(cmd string) error
	// Query sends a command and returns its reply with the trailing
	// terminator removed.
	Query(cmd string) (string, error)
	// SetTimeout bounds every subsequent Write and Query.
	SetTimeout(d time.Duration)
	// Close releases the channel. Closing twice is not an error.
	Close() error
}

// Directory enumerates connected instruments and opens transports to them.
type Directory interface {
	Discover(ctx context.Context) ([]Endpoint, error)
	Open(ctx context.Context, address string) (Transport, error)
}
