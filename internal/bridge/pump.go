package bridge

import (
	"sync/atomic"

	"github.com/ravel-dev/weft/pkg/engine"
	"github.com/rs/zerolog"
)

// pump states. Rerun marks that a Pump call arrived while one was already
// executing; the active pump picks the work up before returning.
const (
	pumpIdle int32 = iota
	pumpRunning
	pumpRerun
)

const defaultBatch = 32

// Pump is the Loop Adapter: the cooperative point where the embedded
// engine's internal tasks and its pending notifications make progress from
// within the host main loop, without blocking it.
//
// One Pump is active at a time. A call that overlaps a running pump (for
// example re-entrantly, from inside a task the pump is executing) does not
// run a second batch; it flags a rerun that the active pump performs before
// finishing.
type Pump struct {
	log     zerolog.Logger
	session *Session
	mailbox *Mailbox
	sink    func(Notice)
	batch   int

	state   atomic.Int32
	backlog []engine.Task // host-thread only
}

// NewPump wires the adapter. sink receives drained notices on the pumping
// (host) thread; batch bounds both notices and tasks handled per pass.
func NewPump(log zerolog.Logger, session *Session, mailbox *Mailbox, sink func(Notice), batch int) *Pump {
	if batch <= 0 {
		batch = defaultBatch
	}
	return &Pump{
		log:     log.With().Str("component", "pump").Logger(),
		session: session,
		mailbox: mailbox,
		sink:    sink,
		batch:   batch,
	}
}

// Pump drains one bounded batch of engine notifications and tasks. Returns
// whether more work is pending. Non-blocking by contract: it only works
// through what is already queued.
func (p *Pump) Pump() bool {
	if !p.state.CompareAndSwap(pumpIdle, pumpRunning) {
		// Overlapping call: coalesce into a rerun of the active pump.
		p.state.Store(pumpRerun)
		return true
	}

	more := p.drain()
	for {
		if p.state.CompareAndSwap(pumpRunning, pumpIdle) {
			return more
		}
		// A rerun was requested mid-pump.
		p.state.Store(pumpRunning)
		more = p.drain()
	}
}

// drain performs one batch: deliver queued notices to the sink, then let a
// bounded slice of engine tasks run. Host-safe tasks execute inline; the
// rest go back to the engine worker.
func (p *Pump) drain() bool {
	for _, n := range p.mailbox.Drain(p.batch) {
		p.sink(n)
	}

	if len(p.backlog) == 0 {
		p.backlog = p.session.pollTasks()
	}
	n := len(p.backlog)
	if n > p.batch {
		n = p.batch
	}
	for _, t := range p.backlog[:n] {
		if t.Run == nil {
			continue
		}
		switch t.Affinity {
		case engine.AffinityHost:
			t.Run()
		case engine.AffinityEngine:
			p.session.forwardTask(t)
		}
	}
	p.backlog = p.backlog[n:]

	return len(p.backlog) > 0 || p.mailbox.Len() > 0
}
