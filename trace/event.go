package trace

import "time"

// Kind classifies a trace event.
type Kind uint8

const (
	KindOpen Kind = iota + 1
	KindWrite
	KindQuery
	KindReply
	KindError
	KindTimeout
	KindClose
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindWrite:
		return "write"
	case KindQuery:
		return "query"
	case KindReply:
		return "reply"
	case KindError:
		return "error"
	case KindTimeout:
		return "timeout"
	case KindClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event is one traced transport operation.
type Event struct {
	Session string        `cbor:"1,keyasint"`
	Seq     uint64        `cbor:"2,keyasint"`
	Time    time.Time     `cbor:"3,keyasint"`
	Kind    Kind          `cbor:"4,keyasint"`
	Address string        `cbor:"5,keyasint,omitempty"`
	Command string        `cbor:"6,keyasint,omitempty"`
	Reply   string        `cbor:"7,keyasint,omitempty"`
	Error   string        `cbor:"8,keyasint,omitempty"`
	Elapsed time.Duration `cbor:"9,keyasint,omitempty"`
}

// Recorder consumes trace events.
type Recorder interface {
	Record(ev Event) error
	Close() error
}
