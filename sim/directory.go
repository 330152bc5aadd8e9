package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-scpi/transport"
)

// KeysightVendor is the USB vendor ID used in simulated addresses.
const KeysightVendor = 0x0957

// Directory is an in-memory transport.Directory over simulated instruments.
type Directory struct {
	instruments *xsync.MapOf[string, *Instrument]
}

var _ transport.Directory = (*Directory)(nil)

// NewDirectory returns a directory listing the given instruments.
func NewDirectory(instruments ...*Instrument) *Directory {
	d := &Directory{instruments: xsync.NewMapOf[string, *Instrument]()}
	for _, in := range instruments {
		d.Add(in)
	}

	return d
}

// Add registers an instrument, replacing any instrument at the same address.
func (d *Directory) Add(in *Instrument) {
	d.instruments.Store(in.Address(), in)
}

// Remove unregisters the instrument at address.
func (d *Directory) Remove(address string) {
	d.instruments.Delete(address)
}

// Lookup returns the instrument registered at address.
func (d *Directory) Lookup(address string) (*Instrument, bool) {
	return d.instruments.Load(address)
}

// Discover lists the registered instruments ordered by address.
func (d *Directory) Discover(ctx context.Context) ([]transport.Endpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	endpoints := make([]transport.Endpoint, 0, d.instruments.Size())
	d.instruments.Range(func(_ string, in *Instrument) bool {
		endpoints = append(endpoints, in.Endpoint())
		return true
	})
	sort.Slice(endpoints, func(i, j int) bool { return endpoints[i].Address < endpoints[j].Address })

	return endpoints, nil
}

// Open connects to the instrument at address. The instrument itself is the
// returned transport.
func (d *Directory) Open(ctx context.Context, address string) (transport.Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, ok := d.instruments.Load(address)
	if !ok {
		return nil, fmt.Errorf("sim: no instrument at %s", address)
	}
	in.connect()

	return in, nil
}
