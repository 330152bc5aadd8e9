package instrument

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/arloliu/go-scpi/logger"
	"github.com/arloliu/go-scpi/scpi"
	"github.com/arloliu/go-scpi/trace"
	"github.com/arloliu/go-scpi/transport"
)

// MaxErrorQueue is the depth of the instrument error queue.
const MaxErrorQueue = 20

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("instrument: session closed")

// Session owns the open transport to one instrument.
//
// A Session is not meant to be shared between goroutines; the internal lock
// only keeps a concurrent Close from racing an operation in flight.
type Session struct {
	mu       sync.Mutex
	cfg      *Config
	logger   logger.Logger
	endpoint transport.Endpoint
	identity scpi.Identity
	tr       transport.Transport
	state    sessionState
	metrics  SessionMetrics
	lastErr  error
}

// Open locates the instrument with the given serial number and model token
// and opens a session to it.
//
// Discovery returning no endpoints fails with scpi.ErrNoDevicesDetected.
// Every endpoint whose address carries the bus prefix and contains serial is
// opened and identified with *IDN?; the first one whose reply contains model
// is kept. Endpoints answering with another model are closed and skipped. When
// no endpoint qualifies Open fails with scpi.ErrDeviceNotFound.
func Open(ctx context.Context, dir transport.Directory, serial, model string, opts ...Option) (*Session, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	return OpenWithConfig(ctx, dir, serial, model, cfg)
}

// OpenWithConfig is Open with a prepared configuration.
func OpenWithConfig(ctx context.Context, dir transport.Directory, serial, model string, cfg *Config) (*Session, error) {
	l := cfg.logger.With("model", model, "serial", serial)

	endpoints, err := dir.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("instrument: discover: %w", protocolError(err))
	}
	if len(endpoints) == 0 {
		return nil, scpi.ErrNoDevicesDetected
	}

	for _, ep := range endpoints {
		if !ep.Matches(cfg.busPrefix, serial) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tr, err := dir.Open(ctx, ep.Address)
		if err != nil {
			return nil, fmt.Errorf("instrument: open %s: %w", ep.Address, protocolError(err))
		}
		if rec := cfg.recorder; rec != nil {
			tr = trace.Wrap(tr, ep.Address, rec)
		}
		tr.SetTimeout(cfg.timeout)

		reply, err := tr.Query(scpi.CmdIdentify)
		if err != nil {
			_ = tr.Close()
			return nil, fmt.Errorf("instrument: identify %s: %w", ep.Address, protocolError(err))
		}
		if !strings.Contains(reply, model) {
			l.Debug("identification does not match model, skipping endpoint", "address", ep.Address, "idn", reply)
			_ = tr.Close()

			continue
		}

		id := scpi.ParseIdentity(reply)
		if id.Model != "" {
			ep.Model = id.Model
		}
		if id.Serial != "" {
			ep.Serial = id.Serial
		}

		s := &Session{
			cfg:      cfg,
			logger:   l.With("address", ep.Address),
			endpoint: ep,
			identity: id,
			tr:       tr,
		}
		s.logger.Info("opened connection to instrument", "idn", reply)

		return s, nil
	}

	return nil, fmt.Errorf("%w: model %s, serial %s", scpi.ErrDeviceNotFound, model, serial)
}

func protocolError(err error) error {
	if errors.Is(err, scpi.ErrProtocol) {
		return err
	}

	return fmt.Errorf("%w: %w", scpi.ErrProtocol, err)
}

// Endpoint returns the matched endpoint.
func (s *Session) Endpoint() transport.Endpoint { return s.endpoint }

// Identity returns the parsed identification reply received at open.
func (s *Session) Identity() scpi.Identity { return s.identity }

// IsOpen reports whether the session is open.
func (s *Session) IsOpen() bool { return s.state.isOpen() }

// Metrics returns the session counters.
func (s *Session) Metrics() *SessionMetrics { return &s.metrics }

// Logger returns the session logger, annotated with model, serial and address.
func (s *Session) Logger() logger.Logger { return s.logger }

// LastError returns the most recent transport error, or nil.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

func (s *Session) fail(op, cmd string, err error) error {
	s.metrics.incErrorCount()
	err = fmt.Errorf("instrument: %s %q: %w", op, cmd, protocolError(err))
	s.lastErr = err

	return err
}

func (s *Session) rawWrite(cmd string) error {
	if err := s.tr.Write(cmd); err != nil {
		return s.fail("write", cmd, err)
	}
	s.metrics.incWriteCount()

	return nil
}

func (s *Session) rawQuery(cmd string) (string, error) {
	reply, err := s.tr.Query(cmd)
	if err != nil {
		return "", s.fail("query", cmd, err)
	}
	s.metrics.incQueryCount()

	return strings.TrimSpace(reply), nil
}

// Write waits for pending operations to complete and sends cmd.
func (s *Session) Write(cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.isOpen() {
		return ErrSessionClosed
	}
	if err := s.rawWrite(scpi.CmdWait); err != nil {
		return err
	}

	return s.rawWrite(cmd)
}

// Query waits for pending operations to complete, sends cmd and returns the
// reply with surrounding whitespace removed.
func (s *Session) Query(cmd string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.isOpen() {
		return "", ErrSessionClosed
	}
	if err := s.rawWrite(scpi.CmdWait); err != nil {
		return "", err
	}

	return s.rawQuery(cmd)
}

// QueryFloat issues cmd and parses a scalar reading.
func (s *Session) QueryFloat(cmd string) (float64, error) {
	reply, err := s.Query(cmd)
	if err != nil {
		return 0, err
	}

	return scpi.ParseFloat(reply)
}

// QueryInt issues cmd and parses an integer reply.
func (s *Session) QueryInt(cmd string) (int, error) {
	reply, err := s.Query(cmd)
	if err != nil {
		return 0, err
	}

	return scpi.ParseInt(reply)
}

// QueryBool issues cmd and parses a 0/1 reply.
func (s *Session) QueryBool(cmd string) (bool, error) {
	reply, err := s.Query(cmd)
	if err != nil {
		return false, err
	}

	return scpi.ParseBool01(reply)
}

// QueryFloatList issues cmd and parses a comma separated list of readings.
func (s *Session) QueryFloatList(cmd string) ([]float64, error) {
	reply, err := s.Query(cmd)
	if err != nil {
		return nil, err
	}

	return scpi.ParseFloatList(reply)
}

// Wait sends *WAI on its own.
func (s *Session) Wait() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.isOpen() {
		return ErrSessionClosed
	}

	return s.rawWrite(scpi.CmdWait)
}

// IsOperationComplete reports whether *OPC? answered 1.
func (s *Session) IsOperationComplete() (bool, error) {
	reply, err := s.Query(scpi.CmdOperationComplete)
	if err != nil {
		return false, err
	}

	return strings.HasPrefix(strings.TrimPrefix(reply, "+"), "1"), nil
}

// ClearPresets resets the instrument, presets the status subsystem and
// clears the status registers.
func (s *Session) ClearPresets() error {
	if err := s.Write(scpi.CmdClearPresets); err != nil {
		return err
	}
	s.logger.Info("cleared instrument presets")

	return nil
}

// ClearStatus clears the event status registers and the error queue.
func (s *Session) ClearStatus() error {
	if err := s.Write(scpi.CmdClearStatus); err != nil {
		return err
	}
	s.logger.Info("cleared instrument event status registers and errors")

	return nil
}

// Reset restores the factory default state.
func (s *Session) Reset() error {
	if err := s.Write(scpi.CmdReset); err != nil {
		return err
	}
	s.logger.Info("instrument reset to factory default state")

	return nil
}

// SystemError reads and removes one record from the instrument error queue.
// Firmware errors are returned as data and never as a Go error.
func (s *Session) SystemError() (scpi.ErrorRecord, error) {
	reply, err := s.Query(scpi.CmdSystemError)
	if err != nil {
		return scpi.ErrorRecord{}, err
	}

	rec, err := scpi.ParseError(reply)
	if err != nil {
		return scpi.ErrorRecord{}, err
	}
	if rec.IsError() {
		s.metrics.incFirmwareErrorCount()
	}

	return rec, nil
}

// SystemErrors drains the error queue, reading at most MaxErrorQueue records.
func (s *Session) SystemErrors() ([]scpi.ErrorRecord, error) {
	var records []scpi.ErrorRecord
	for range MaxErrorQueue {
		rec, err := s.SystemError()
		if err != nil {
			return records, err
		}
		if !rec.IsError() {
			break
		}
		records = append(records, rec)
	}

	return records, nil
}

// Calibrate runs the self calibration and returns its result code; zero
// means pass.
func (s *Session) Calibrate() (int, error) {
	return s.QueryInt(scpi.CmdCalibrate)
}

// Close closes the transport. Closing a closed session is a no-op.
func (s *Session) Close() error {
	if !s.state.beginClose() {
		return nil
	}

	s.mu.Lock()
	err := s.tr.Close()
	s.mu.Unlock()

	s.state.endClose()
	s.logger.Info("closed connection session to instrument")

	if err != nil {
		return fmt.Errorf("instrument: close: %w", protocolError(err))
	}

	return nil
}
