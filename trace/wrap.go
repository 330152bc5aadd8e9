package trace

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/go-scpi/transport"
)

// Transport is a transport.Transport that records its traffic.
type Transport struct {
	next    transport.Transport
	rec     Recorder
	address string
	session string
	seq     atomic.Uint64
	now     func() time.Time
}

var _ transport.Transport = (*Transport)(nil)

// Wrap decorates t so that every operation is recorded to rec under a fresh
// session ID. Recording failures never fail the wrapped operation.
func Wrap(t transport.Transport, address string, rec Recorder) *Transport {
	tt := &Transport{
		next:    t,
		rec:     rec,
		address: address,
		session: uuid.NewString(),
		now:     time.Now,
	}
	tt.record(Event{Kind: KindOpen})

	return tt
}

// Session returns the session ID stamped on every recorded event.
func (t *Transport) Session() string { return t.session }

func (t *Transport) record(ev Event) {
	ev.Session = t.session
	ev.Seq = t.seq.Add(1)
	ev.Address = t.address
	if ev.Time.IsZero() {
		ev.Time = t.now()
	}
	_ = t.rec.Record(ev)
}

func (t *Transport) recordErr(cmd string, err error, elapsed time.Duration) {
	kind := KindError
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		kind = KindTimeout
	}
	t.record(Event{Kind: kind, Command: cmd, Error: err.Error(), Elapsed: elapsed})
}

func (t *Transport) Write(cmd string) error {
	start := t.now()
	t.record(Event{Kind: KindWrite, Command: cmd, Time: start})

	err := t.next.Write(cmd)
	if err != nil {
		t.recordErr(cmd, err, t.now().Sub(start))
	}

	return err
}

func (t *Transport) Query(cmd string) (string, error) {
	start := t.now()
	t.record(Event{Kind: KindQuery, Command: cmd, Time: start})

	reply, err := t.next.Query(cmd)
	elapsed := t.now().Sub(start)
	if err != nil {
		t.recordErr(cmd, err, elapsed)
		return reply, err
	}
	t.record(Event{Kind: KindReply, Command: cmd, Reply: reply, Elapsed: elapsed})

	return reply, nil
}

func (t *Transport) SetTimeout(d time.Duration) {
	t.next.SetTimeout(d)
}

func (t *Transport) Close() error {
	err := t.next.Close()
	ev := Event{Kind: KindClose}
	if err != nil {
		ev.Error = err.Error()
	}
	t.record(ev)

	return err
}
