package instrument

import "sync/atomic"

// SessionMetrics contains atomic counters for one instrument session.
type SessionMetrics struct {
	// WriteCount is the number of commands written, *WAI included.
	WriteCount atomic.Uint64
	// QueryCount is the number of queries answered.
	QueryCount atomic.Uint64
	// ErrorCount is the number of failed transport operations.
	ErrorCount atomic.Uint64
	// FirmwareErrorCount is the number of non-zero error records read from the error queue.
	FirmwareErrorCount atomic.Uint64
}

func (m *SessionMetrics) incWriteCount() {
	m.WriteCount.Add(1)
}

func (m *SessionMetrics) incQueryCount() {
	m.QueryCount.Add(1)
}

func (m *SessionMetrics) incErrorCount() {
	m.ErrorCount.Add(1)
}

func (m *SessionMetrics) incFirmwareErrorCount() {
	m.FirmwareErrorCount.Add(1)
}
