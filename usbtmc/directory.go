package usbtmc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/gousb"

	"github.com/arloliu/go-scpi/logger"
	"github.com/arloliu/go-scpi/transport"
)

const (
	classApplication gousb.Class = 0xFE
	subclassUSBTMC   gousb.Class = 0x03
)

// Directory discovers USBTMC instruments on the local USB buses.
type Directory struct {
	logger logger.Logger
}

var _ transport.Directory = (*Directory)(nil)

// NewDirectory creates a Directory. A nil logger selects the package default.
func NewDirectory(l logger.Logger) *Directory {
	if l == nil {
		l = logger.GetLogger()
	}

	return &Directory{logger: l}
}

// tmcInterface returns the number of the first USBTMC interface described by
// desc, and the configuration that holds it.
func tmcInterface(desc *gousb.DeviceDesc) (cfgNum int, intfNum int, ok bool) {
	for _, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class == classApplication && alt.SubClass == subclassUSBTMC {
					return cfg.Number, intf.Number, true
				}
			}
		}
	}

	return 0, 0, false
}

// Discover lists every attached device exposing a USBTMC interface.
func (d *Directory) Discover(ctx context.Context) ([]transport.Endpoint, error) {
	usb := gousb.NewContext()
	defer usb.Close()

	devs, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		_, _, ok := tmcInterface(desc)

		return ok
	})
	if err != nil && !errors.Is(err, gousb.ErrorAccess) {
		closeAll(devs)
		return nil, fmt.Errorf("usbtmc: enumerate devices: %w", err)
	}

	endpoints := make([]transport.Endpoint, 0, len(devs))
	for _, dev := range devs {
		serial, _ := dev.SerialNumber()
		product, _ := dev.Product()
		_, intfNum, _ := tmcInterface(dev.Desc)

		ep := transport.Endpoint{
			Address: Address{
				Vendor:    uint16(dev.Desc.Vendor),
				Product:   uint16(dev.Desc.Product),
				Serial:    serial,
				Interface: intfNum,
			}.String(),
			Model:  product,
			Serial: serial,
		}
		d.logger.Debug("usbtmc endpoint discovered", "address", ep.Address, "product", product)
		endpoints = append(endpoints, ep)
	}
	closeAll(devs)

	return endpoints, ctx.Err()
}

// Open claims the USBTMC interface of the device at address.
func (d *Directory) Open(ctx context.Context, address string) (transport.Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}

	usb := gousb.NewContext()
	devs, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return uint16(desc.Vendor) == addr.Vendor && uint16(desc.Product) == addr.Product
	})
	if err != nil && !errors.Is(err, gousb.ErrorAccess) {
		closeAll(devs)
		usb.Close()
		return nil, fmt.Errorf("usbtmc: open %s: %w", address, err)
	}

	var dev *gousb.Device
	for _, candidate := range devs {
		if serial, _ := candidate.SerialNumber(); dev == nil && serial == addr.Serial {
			dev = candidate
			continue
		}
		candidate.Close()
	}
	if dev == nil {
		usb.Close()
		return nil, fmt.Errorf("usbtmc: no device at %s", address)
	}

	t, err := newTransport(usb, dev, addr, d.logger)
	if err != nil {
		dev.Close()
		usb.Close()
		return nil, err
	}

	return t, nil
}

func closeAll(devs []*gousb.Device) {
	for _, dev := range devs {
		dev.Close()
	}
}
