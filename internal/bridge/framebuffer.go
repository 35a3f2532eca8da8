// Package bridge implements the embedding bridge between an embedded web
// rendering engine and the host toolkit's main loop: frame handoff, input
// routing, session lifetime, and cooperative task pumping.
package bridge

import (
	"sync/atomic"

	"github.com/ravel-dev/weft/pkg/engine"
)

// FrameBuffer is the single-slot frame handoff between the engine's
// compositor thread and the host paint tick. It holds at most one frame:
// newer submissions overwrite older ones, trading completeness for low
// latency and bounded memory.
//
// Submit may be called from any thread. TakeLatest must only be called from
// the host paint path (single consumer).
type FrameBuffer struct {
	slot  atomic.Pointer[engine.Frame]
	taken uint64 // highest seq handed out; consumer thread only

	submitted atomic.Uint64
	dropped   atomic.Uint64
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Submit publishes a completed frame. Frames with a sequence number at or
// below the currently held one are stale and dropped. Returns whether the
// frame was accepted.
//
// The slot is a single atomically-replaced pointer, so a reader always sees
// a complete frame or none.
func (b *FrameBuffer) Submit(f engine.Frame) bool {
	frame := f
	for {
		cur := b.slot.Load()
		if cur != nil && f.Seq <= cur.Seq {
			b.dropped.Add(1)
			return false
		}
		if b.slot.CompareAndSwap(cur, &frame) {
			b.submitted.Add(1)
			return true
		}
	}
}

// TakeLatest returns the most recent frame with a sequence number greater
// than the last one returned, or nil if no new frame exists. It never blocks.
func (b *FrameBuffer) TakeLatest() *engine.Frame {
	f := b.slot.Load()
	if f == nil || f.Seq <= b.taken {
		return nil
	}
	b.taken = f.Seq
	return f
}

// Stats reports how many frames were accepted and how many were dropped as
// stale. Used by diagnostics.
func (b *FrameBuffer) Stats() (submitted, dropped uint64) {
	return b.submitted.Load(), b.dropped.Load()
}
