package bridge

import (
	"sync/atomic"

	"github.com/ravel-dev/weft/pkg/engine"
	"github.com/rs/zerolog"
)

// Router translates host input events into engine viewport coordinates and
// forwards them in host-observed order.
//
// Events arriving while the session is still Idle (before the first
// navigation) are dropped, not queued: the engine cannot accept input yet
// and buffering would build up without bound. This is a deliberate lossy
// policy, not an error; Dropped exposes the count for diagnostics.
type Router struct {
	log     zerolog.Logger
	session *Session
	dropped atomic.Uint64
}

func NewRouter(log zerolog.Logger, session *Session) *Router {
	return &Router{
		log:     log.With().Str("component", "input").Logger(),
		session: session,
	}
}

// Route forwards one host input event. Coordinates come in widget-local
// space and leave in engine device pixels. Never blocks on engine threads.
func (r *Router) Route(ev engine.InputEvent) {
	if r.session.LoadState() == StateIdle {
		r.dropped.Add(1)
		r.log.Trace().Str("kind", ev.Kind.String()).Msg("dropping input, engine not navigated yet")
		return
	}

	scale := r.session.ScaleFactor()
	switch ev.Kind {
	case engine.PointerMove, engine.PointerButton:
		ev.X *= scale
		ev.Y *= scale
	case engine.Scroll:
		ev.X *= scale
		ev.Y *= scale
		ev.DeltaX *= scale
		ev.DeltaY *= scale
	}

	r.session.dispatchInput(ev)
}

// Dropped reports how many events were discarded under the idle policy.
func (r *Router) Dropped() uint64 {
	return r.dropped.Load()
}
