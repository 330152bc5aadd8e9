package instrument

import "sync/atomic"

// lifecycle is the open/close state of a session. A session is created open
// and can only move forward.
type lifecycle uint32

const (
	lifecycleOpen lifecycle = iota
	lifecycleClosing
	lifecycleClosed
)

func (l lifecycle) String() string {
	switch l {
	case lifecycleOpen:
		return "open"
	case lifecycleClosing:
		return "closing"
	case lifecycleClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type sessionState struct {
	v atomic.Uint32
}

func (st *sessionState) load() lifecycle { return lifecycle(st.v.Load()) }

func (st *sessionState) isOpen() bool { return st.load() == lifecycleOpen }

// beginClose moves open to closing and reports whether this caller won.
func (st *sessionState) beginClose() bool {
	return st.v.CompareAndSwap(uint32(lifecycleOpen), uint32(lifecycleClosing))
}

func (st *sessionState) endClose() { st.v.Store(uint32(lifecycleClosed)) }
