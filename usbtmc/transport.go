package usbtmc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/gousb"

	"github.com/arloliu/go-scpi/logger"
	"github.com/arloliu/go-scpi/scpi"
	"github.com/arloliu/go-scpi/transport"
)

const (
	// DefaultTimeout bounds each bulk transfer until SetTimeout is called.
	DefaultTimeout = 10 * time.Second

	// maxReadChunk is the transfer size requested per REQUEST_DEV_DEP_MSG_IN.
	maxReadChunk = 64 * 1024
)

// ErrClosed is returned by operations on a closed Transport.
var ErrClosed = errors.New("usbtmc: transport closed")

// Transport is an open USBTMC channel to one instrument.
type Transport struct {
	mu      sync.Mutex
	usb     *gousb.Context
	dev     *gousb.Device
	cfg     *gousb.Config
	intf    *gousb.Interface
	out     *gousb.OutEndpoint
	in      *gousb.InEndpoint
	addr    Address
	tags    tagger
	timeout time.Duration
	closed  bool
	logger  logger.Logger
}

var _ transport.Transport = (*Transport)(nil)

func newTransport(usb *gousb.Context, dev *gousb.Device, addr Address, l logger.Logger) (*Transport, error) {
	// not supported on every platform
	_ = dev.SetAutoDetach(true)

	cfgNum, intfNum, ok := tmcInterface(dev.Desc)
	if !ok {
		return nil, fmt.Errorf("usbtmc: %s exposes no USBTMC interface", addr)
	}
	if addr.Interface != 0 {
		intfNum = addr.Interface
	}

	cfg, err := dev.Config(cfgNum)
	if err != nil {
		return nil, fmt.Errorf("usbtmc: select config %d: %w", cfgNum, err)
	}

	intf, err := cfg.Interface(intfNum, 0)
	if err != nil {
		cfg.Close()
		return nil, fmt.Errorf("usbtmc: claim interface %d: %w", intfNum, err)
	}

	t := &Transport{
		usb:     usb,
		dev:     dev,
		cfg:     cfg,
		intf:    intf,
		addr:    addr,
		timeout: DefaultTimeout,
		logger:  l,
	}

	if err := t.openEndpoints(); err != nil {
		intf.Close()
		cfg.Close()
		return nil, err
	}

	return t, nil
}

func (t *Transport) openEndpoints() error {
	var outNum, inNum int
	for _, ep := range t.intf.Setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		switch ep.Direction {
		case gousb.EndpointDirectionOut:
			if outNum == 0 {
				outNum = ep.Number
			}
		case gousb.EndpointDirectionIn:
			if inNum == 0 {
				inNum = ep.Number
			}
		}
	}
	if outNum == 0 || inNum == 0 {
		return fmt.Errorf("usbtmc: bulk endpoints not found on %s", t.addr)
	}

	out, err := t.intf.OutEndpoint(outNum)
	if err != nil {
		return fmt.Errorf("usbtmc: open bulk-out endpoint: %w", err)
	}
	in, err := t.intf.InEndpoint(inNum)
	if err != nil {
		return fmt.Errorf("usbtmc: open bulk-in endpoint: %w", err)
	}
	t.out, t.in = out, in

	return nil
}

// SetTimeout bounds every subsequent bulk transfer.
func (t *Transport) SetTimeout(d time.Duration) {
	t.mu.Lock()
	t.timeout = d
	t.mu.Unlock()
}

// Write sends cmd terminated by a newline.
func (t *Transport) Write(cmd string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	return t.write(cmd)
}

// Query sends cmd and reads the reply up to the EOM transfer.
func (t *Transport) Query(cmd string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return "", ErrClosed
	}

	if err := t.write(cmd); err != nil {
		return "", err
	}

	return t.read()
}

func (t *Transport) write(cmd string) error {
	if !strings.HasSuffix(cmd, "\n") {
		cmd += "\n"
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	frame := encodeDevDepOut(t.tags.next(), []byte(cmd), true)
	if _, err := t.out.WriteContext(ctx, frame); err != nil {
		return fmt.Errorf("usbtmc: bulk-out %q: %w: %w", strings.TrimSpace(cmd), scpi.ErrProtocol, err)
	}

	return nil
}

func (t *Transport) read() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	var reply bytes.Buffer
	buf := make([]byte, headerSize+maxReadChunk+3)
	for {
		tag := t.tags.next()
		if _, err := t.out.WriteContext(ctx, encodeRequestDevDepIn(tag, maxReadChunk)); err != nil {
			return "", fmt.Errorf("usbtmc: request bulk-in: %w: %w", scpi.ErrProtocol, err)
		}

		n, err := t.in.ReadContext(ctx, buf)
		if err != nil {
			return "", fmt.Errorf("usbtmc: bulk-in: %w: %w", scpi.ErrProtocol, err)
		}

		hdr, err := decodeDevDepInHeader(tag, buf[:n])
		if err != nil {
			return "", fmt.Errorf("usbtmc: %w: %w", scpi.ErrProtocol, err)
		}

		// a transfer longer than one read continues without a header
		got := buf[headerSize:n]
		for uint32(len(got)) < hdr.size {
			if n == len(buf) {
				return "", fmt.Errorf("usbtmc: %w: bulk-in transfer exceeds %d bytes", scpi.ErrProtocol, maxReadChunk)
			}
			m, err := t.in.ReadContext(ctx, buf[n:])
			if err != nil {
				return "", fmt.Errorf("usbtmc: bulk-in continuation: %w: %w", scpi.ErrProtocol, err)
			}
			n += m
			got = buf[headerSize:n]
		}
		reply.Write(got[:hdr.size])

		if hdr.eom {
			break
		}
	}

	return strings.TrimRight(reply.String(), "\r\n"), nil
}

// Close releases the interface, the device and the USB context. Closing an
// already closed Transport is a no-op.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	t.intf.Close()
	errs := []error{t.cfg.Close(), t.dev.Close(), t.usb.Close()}
	t.logger.Debug("usbtmc transport closed", "address", t.addr.String())

	return errors.Join(errs...)
}
