package trace

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: create CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("trace: create CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event to CBOR.
func EncodeEvent(ev Event) ([]byte, error) {
	return encMode.Marshal(ev)
}

// DecodeEvent decodes one CBOR encoded Event.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := decMode.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}

	return ev, nil
}

func newEncoder(w io.Writer) *cbor.Encoder { return encMode.NewEncoder(w) }
func newDecoder(r io.Reader) *cbor.Decoder { return decMode.NewDecoder(r) }
