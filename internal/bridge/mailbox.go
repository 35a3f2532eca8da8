package bridge

import (
	"sync"

	"github.com/ravel-dev/weft/pkg/engine"
)

// NoticeKind tags an engine-to-host notification.
type NoticeKind int

const (
	// NoticeFrame signals that a new frame was placed in the FrameBuffer
	// and the host should invalidate its paint area.
	NoticeFrame NoticeKind = iota
	// NoticeLoad carries a navigation-lifecycle event.
	NoticeLoad
	// NoticeTitle carries a document title change.
	NoticeTitle
	// NoticeCursor carries a CSS cursor name change.
	NoticeCursor
)

// Notice is one engine-originated notification on its way to host-thread
// signal emission.
type Notice struct {
	Kind   NoticeKind
	Load   engine.LoadEvent
	Title  string
	Cursor string
}

// Mailbox carries notifications from engine threads into the host main loop,
// preserving order. Engine callbacks post; the Loop Adapter drains on the
// host thread. Posting never blocks.
//
// A wake function, when set, is invoked once per empty-to-non-empty
// transition so the host loop can schedule a pump. It must be safe to call
// from engine threads.
type Mailbox struct {
	mu     sync.Mutex
	queue  []Notice
	closed bool
	wake   func()
}

func NewMailbox(wake func()) *Mailbox {
	return &Mailbox{wake: wake}
}

// SetWake installs the wake function after construction, for callers that
// can only build it once the mailbox's consumer exists. If notices are
// already pending, wake fires immediately so no transition is lost.
func (m *Mailbox) SetWake(wake func()) {
	m.mu.Lock()
	m.wake = wake
	pending := len(m.queue) > 0 && !m.closed
	m.mu.Unlock()

	if pending && wake != nil {
		wake()
	}
}

// Post appends a notice. Notices posted after Close are dropped.
func (m *Mailbox) Post(n Notice) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	wasEmpty := len(m.queue) == 0
	m.queue = append(m.queue, n)
	wake := m.wake
	m.mu.Unlock()

	if wasEmpty && wake != nil {
		wake()
	}
}

// Drain removes and returns up to max notices in posting order. max <= 0
// drains everything.
func (m *Mailbox) Drain(max int) []Notice {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) == 0 {
		return nil
	}
	n := len(m.queue)
	if max > 0 && max < n {
		n = max
	}
	out := make([]Notice, n)
	copy(out, m.queue[:n])
	m.queue = append(m.queue[:0], m.queue[n:]...)
	return out
}

// Len reports how many notices are pending.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Close drops pending notices and rejects new ones.
func (m *Mailbox) Close() {
	m.mu.Lock()
	m.closed = true
	m.queue = nil
	m.mu.Unlock()
}
