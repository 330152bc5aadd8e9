package sim

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-scpi/internal/queue"
	"github.com/arloliu/go-scpi/internal/util"
	"github.com/arloliu/go-scpi/scpi"
	"github.com/arloliu/go-scpi/transport"
)

// ErrorQueueSize is the depth of the simulated error queue.
const ErrorQueueSize = 20

// DefaultLoad is the resistive load, in ohms, seen by simulated outputs.
const DefaultLoad = 100.0

var (
	// ErrClosed is returned by a simulated transport after Close.
	ErrClosed = errors.New("sim: transport closed")
	// ErrTimeout is returned for queries the instrument does not answer.
	ErrTimeout = fmt.Errorf("sim: query timed out: %w", os.ErrDeadlineExceeded)
)

type handler func(in *Instrument, c command) string

// Instrument is a simulated instrument. It implements transport.Transport and
// is safe for concurrent use.
type Instrument struct {
	mu       sync.Mutex
	model    string
	serial   string
	address  string
	idn      string
	handlers map[string]handler
	settings *xsync.MapOf[string, string]
	errs     queue.Queue[scpi.ErrorRecord]
	log      []string
	faults   map[string]error
	timeout  time.Duration
	open     bool
	load     float64

	meter *meterState
	smu   *smuState
}

var _ transport.Transport = (*Instrument)(nil)

func newInstrument(model, serial, address string, handlers map[string]handler) *Instrument {
	in := &Instrument{
		model:    model,
		serial:   serial,
		address:  address,
		idn:      fmt.Sprintf("Keysight Technologies,%s,%s,1.00-1.00", model, serial),
		handlers: handlers,
		settings: xsync.NewMapOf[string, string](),
		errs:     queue.NewBounded[scpi.ErrorRecord](ErrorQueueSize),
		faults:   make(map[string]error),
		load:     DefaultLoad,
	}

	return in
}

// Model returns the model token reported by *IDN?.
func (in *Instrument) Model() string { return in.model }

// Serial returns the simulated serial number.
func (in *Instrument) Serial() string { return in.serial }

// Address returns the VISA-style address the instrument is listed under.
func (in *Instrument) Address() string { return in.address }

// Endpoint returns the directory entry for the instrument.
func (in *Instrument) Endpoint() transport.Endpoint {
	return transport.Endpoint{Address: in.address, Model: in.model, Serial: in.serial}
}

// SetIdentity overrides the *IDN? reply.
func (in *Instrument) SetIdentity(idn string) {
	in.mu.Lock()
	in.idn = idn
	in.mu.Unlock()
}

// SetLoad sets the resistive load in ohms.
func (in *Instrument) SetLoad(ohms float64) {
	in.mu.Lock()
	in.load = ohms
	in.mu.Unlock()
}

// Setting returns a raw simulated setting, e.g. "OUTP" or "VOLT@1".
func (in *Instrument) Setting(key string) (string, bool) {
	return in.settings.Load(key)
}

// Commands returns every command received since the last ResetLog,
// *WAI included.
func (in *Instrument) Commands() []string {
	in.mu.Lock()
	defer in.mu.Unlock()

	return util.CloneSlice(in.log, 0)
}

// Issued returns the received commands without the *WAI directives.
func (in *Instrument) Issued() []string {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := make([]string, 0, len(in.log))
	for _, cmd := range in.log {
		if cmd != scpi.CmdWait {
			out = append(out, cmd)
		}
	}

	return out
}

// ResetLog forgets the received commands.
func (in *Instrument) ResetLog() {
	in.mu.Lock()
	in.log = in.log[:0]
	in.mu.Unlock()
}

// FailOn makes every command starting with prefix fail with err at the
// transport level. A nil err removes the fault.
func (in *Instrument) FailOn(prefix string, err error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err == nil {
		delete(in.faults, prefix)
		return
	}
	in.faults[prefix] = err
}

// PushError appends a record to the error queue.
func (in *Instrument) PushError(code int, msg string) {
	in.mu.Lock()
	in.pushError(code, msg)
	in.mu.Unlock()
}

// ErrorCount returns the number of queued error records.
func (in *Instrument) ErrorCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.errs.Length()
}

// IsOpen reports whether a transport to the instrument is open.
func (in *Instrument) IsOpen() bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.open
}

// Timeout returns the last timeout set through the transport.
func (in *Instrument) Timeout() time.Duration {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.timeout
}

func (in *Instrument) pushError(code int, msg string) {
	in.errs.Enqueue(scpi.ErrorRecord{Code: code, Message: msg})
}

func (in *Instrument) fault(cmd string) error {
	for prefix, err := range in.faults {
		if strings.HasPrefix(cmd, prefix) {
			return err
		}
	}

	return nil
}

func (in *Instrument) connect() {
	in.mu.Lock()
	in.open = true
	in.mu.Unlock()
}

func (in *Instrument) Write(cmd string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !in.open {
		return ErrClosed
	}
	cmd = strings.TrimSpace(cmd)
	in.log = append(in.log, cmd)
	if err := in.fault(cmd); err != nil {
		return err
	}

	for _, unit := range splitUnits(cmd) {
		in.execute(parseCommand(unit))
	}

	return nil
}

func (in *Instrument) Query(cmd string) (string, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !in.open {
		return "", ErrClosed
	}
	cmd = strings.TrimSpace(cmd)
	in.log = append(in.log, cmd)
	if err := in.fault(cmd); err != nil {
		return "", err
	}

	var replies []string
	for _, unit := range splitUnits(cmd) {
		c := parseCommand(unit)
		reply, ok := in.execute(c)
		if ok && c.query {
			replies = append(replies, reply)
		}
	}
	if len(replies) == 0 {
		return "", ErrTimeout
	}

	return strings.Join(replies, ";"), nil
}

func (in *Instrument) SetTimeout(d time.Duration) {
	in.mu.Lock()
	in.timeout = d
	in.mu.Unlock()
}

// Close ends the transport session. The instrument keeps its state and can be
// opened again through its Directory.
func (in *Instrument) Close() error {
	in.mu.Lock()
	in.open = false
	in.mu.Unlock()

	return nil
}

// execute runs one command. It reports false when the header is unknown.
func (in *Instrument) execute(c command) (string, bool) {
	h, ok := commonHandlers[c.key()]
	if !ok {
		h, ok = in.handlers[c.key()]
	}
	if !ok {
		in.pushError(-113, "Undefined header")
		return "", false
	}

	return h(in, c), true
}

func (in *Instrument) reset() {
	in.settings.Clear()
	if in.meter != nil {
		in.meter.reset(in)
	}
	if in.smu != nil {
		in.smu.reset(in)
	}
}

func (in *Instrument) setting(key, def string) string {
	if v, ok := in.settings.Load(key); ok {
		return v
	}

	return def
}

func (in *Instrument) floatSetting(key string, def float64) float64 {
	v, ok := in.settings.Load(key)
	if !ok {
		return def
	}
	f, err := scpi.ParseFloat(v)
	if err != nil {
		return def
	}

	return f
}

// storeFloat stores argument i of c under key, queueing -224 on a bad value.
func (in *Instrument) storeFloat(key string, c command, i int) {
	v, ok := c.float(i)
	if !ok {
		in.pushError(-224, "Illegal parameter value")
		return
	}
	in.settings.Store(key, scpi.FormatFloat(v))
}

// storeToken stores argument i of c under key if it is one of allowed.
func (in *Instrument) storeToken(key string, c command, i int, allowed ...string) {
	tok := strings.ToUpper(c.arg(i))
	for _, a := range allowed {
		if tok == strings.ToUpper(a) {
			in.settings.Store(key, a)
			return
		}
	}
	in.pushError(-224, "Illegal parameter value")
}

var commonHandlers = map[string]handler{
	"*IDN?": func(in *Instrument, _ command) string { return in.idn },
	"*WAI":  func(*Instrument, command) string { return "" },
	"*OPC?": func(*Instrument, command) string { return "1" },
	"*CLS": func(in *Instrument, _ command) string {
		in.errs.Reset()
		return ""
	},
	"*RST": func(in *Instrument, _ command) string {
		in.reset()
		return ""
	},
	"STAT:PRES": func(in *Instrument, _ command) string {
		in.settings.Delete("STAT:QUES:ENAB")
		return ""
	},
	"SYST:ERR?": func(in *Instrument, _ command) string {
		rec, ok := in.errs.Dequeue()
		if !ok {
			return `+0,"No error"`
		}

		return fmt.Sprintf("%+d,%q", rec.Code, rec.Message)
	},
	"CAL?": func(*Instrument, command) string { return "+0" },
}
