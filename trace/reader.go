package trace

import (
	"errors"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects events. Zero fields match everything.
type Filter struct {
	Session string
	Kind    Kind
	Address string
}

func (f Filter) matches(ev Event) bool {
	if f.Session != "" && ev.Session != f.Session {
		return false
	}
	if f.Kind != 0 && ev.Kind != f.Kind {
		return false
	}
	if f.Address != "" && ev.Address != f.Address {
		return false
	}

	return true
}

// Reader streams events from a CBOR trace.
type Reader struct {
	closer  io.Closer
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader reads events from r.
func NewReader(r io.Reader, filter Filter) *Reader {
	return &Reader{decoder: newDecoder(r), filter: filter}
}

// OpenFile opens a trace file written by FileRecorder.
func OpenFile(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return &Reader{closer: f, decoder: newDecoder(f), filter: filter}, nil
}

// Next returns the next matching event, or io.EOF at the end of the trace.
func (r *Reader) Next() (Event, error) {
	for {
		var ev Event
		if err := r.decoder.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}

			return Event{}, err
		}

		if r.filter.matches(ev) {
			return ev, nil
		}
	}
}

// All drains the reader.
func (r *Reader) All() ([]Event, error) {
	var events []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}

	return r.closer.Close()
}
