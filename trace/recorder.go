package trace

import (
	"errors"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/arloliu/go-scpi/internal/util"
)

// ErrRecorderClosed is returned when recording to a closed recorder.
var ErrRecorderClosed = errors.New("trace: recorder closed")

// FileRecorder appends CBOR encoded events to a file. It is safe for
// concurrent use.
type FileRecorder struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
}

var _ Recorder = (*FileRecorder)(nil)

// NewFileRecorder opens path for appending, creating it with mode 0644 if needed.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	return &FileRecorder{file: f, encoder: newEncoder(f)}, nil
}

// Record appends ev to the file.
func (r *FileRecorder) Record(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRecorderClosed
	}

	return r.encoder.Encode(ev)
}

// Close closes the file. Calling Close more than once is a no-op.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	return r.file.Close()
}

// MemoryRecorder keeps events in memory.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

var _ Recorder = (*MemoryRecorder)(nil)

func (r *MemoryRecorder) Record(ev Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()

	return nil
}

func (r *MemoryRecorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *MemoryRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return util.CloneSlice(r.events, 0)
}
