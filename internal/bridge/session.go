package bridge

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/ravel-dev/weft/pkg/engine"
	"github.com/rs/zerolog"
)

// LoadState is the session's navigation state.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Config tunes a Session.
type Config struct {
	Engine engine.Config

	// ShutdownTimeout bounds how long Shutdown waits for the engine to
	// release its resources before proceeding anyway.
	ShutdownTimeout time.Duration

	// ActionBuffer sizes the host-to-engine action queue.
	ActionBuffer int
}

const (
	defaultShutdownTimeout = 3 * time.Second
	defaultActionBuffer    = 256
)

type actionKind int

const (
	actionLoad actionKind = iota
	actionResize
	actionInput
	actionTask
	actionSync
	actionShutdown
)

type action struct {
	kind          actionKind
	url           string
	width, height int
	input         engine.InputEvent
	task          engine.Task
	ack           chan struct{}
}

// Session owns exactly one embedded-engine instance: its handle, its worker
// goroutine, and its navigation state. All engine calls except PollTasks are
// funneled through the worker so the engine sees them from a single thread,
// in order.
//
// Configuration fields (viewport, scale) are mutated only from the host
// thread. Navigation state is guarded because engine callbacks arrive on
// engine threads.
type Session struct {
	log     zerolog.Logger
	eng     engine.Engine
	handle  engine.Handle
	runtime *engine.Runtime
	frames  *FrameBuffer
	mailbox *Mailbox

	actions chan action
	done    chan struct{}

	shutdownTimeout time.Duration
	closeOnce       sync.Once

	mu         sync.Mutex
	state      LoadState
	currentURL string
	targetURL  string
	awaiting   bool // waiting for the Started of the newest navigation
	emitting   bool // events of the current navigation pass through
	lastPhase  engine.LoadPhase
	width      int
	height     int
	scale      float64
	closed     bool
}

// NewSession creates the engine instance and starts its worker. A Create
// failure surfaces as ErrEngineUnavailable; the session is unusable then.
func NewSession(log zerolog.Logger, eng engine.Engine, frames *FrameBuffer, mailbox *Mailbox, cfg Config) (*Session, error) {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.ActionBuffer <= 0 {
		cfg.ActionBuffer = defaultActionBuffer
	}
	if cfg.Engine.ScaleFactor <= 0 {
		cfg.Engine.ScaleFactor = 1.0
	}

	rt := engine.SharedRuntime(eng)
	if rt != nil {
		if err := rt.Acquire(); err != nil {
			return nil, fmt.Errorf("%w: runtime init: %v", engine.ErrEngineUnavailable, err)
		}
	}

	handle, err := eng.Create(cfg.Engine)
	if err != nil {
		if rt != nil {
			rt.Release()
		}
		return nil, fmt.Errorf("%w: %v", engine.ErrEngineUnavailable, err)
	}

	s := &Session{
		log:             log.With().Str("component", "session").Logger(),
		eng:             eng,
		handle:          handle,
		runtime:         rt,
		frames:          frames,
		mailbox:         mailbox,
		actions:         make(chan action, cfg.ActionBuffer),
		done:            make(chan struct{}),
		shutdownTimeout: cfg.ShutdownTimeout,
		state:           StateIdle,
		width:           cfg.Engine.Width,
		height:          cfg.Engine.Height,
		scale:           cfg.Engine.ScaleFactor,
	}

	eng.RegisterFrameCallback(handle, s.onFrame)
	eng.RegisterLoadCallback(handle, s.onLoadEvent)
	eng.RegisterTitleCallback(handle, func(title string) {
		s.mailbox.Post(Notice{Kind: NoticeTitle, Title: title})
	})
	eng.RegisterCursorCallback(handle, func(cursor string) {
		s.mailbox.Post(Notice{Kind: NoticeCursor, Cursor: cursor})
	})

	go s.run()

	s.log.Debug().
		Int("width", cfg.Engine.Width).
		Int("height", cfg.Engine.Height).
		Float64("scale", cfg.Engine.ScaleFactor).
		Msg("engine session created")
	return s, nil
}

// LoadURL validates the URL synchronously and dispatches the navigation.
// The outcome arrives asynchronously as load notices. A LoadURL issued while
// a previous navigation is in flight cancels it: late events from the
// superseded navigation are discarded, never emitted.
func (s *Session) LoadURL(rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return engine.ErrSessionClosed
	}
	s.targetURL = rawURL
	s.awaiting = true
	s.emitting = false
	s.state = StateLoading
	s.mu.Unlock()

	s.log.Info().Str("url", rawURL).Msg("loading url")
	s.actions <- action{kind: actionLoad, url: rawURL}
	return nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %q", engine.ErrInvalidURL, rawURL)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("%w: %q: missing host", engine.ErrInvalidURL, rawURL)
		}
	case "file", "about":
	default:
		return fmt.Errorf("%w: %q: unsupported scheme", engine.ErrInvalidURL, rawURL)
	}
	return nil
}

// Resize updates the engine viewport, in device pixels. Re-applying the
// current size is a no-op: no task is dispatched.
func (s *Session) Resize(width, height int) {
	s.mu.Lock()
	if s.closed || (width == s.width && height == s.height) {
		s.mu.Unlock()
		return
	}
	s.width = width
	s.height = height
	s.mu.Unlock()

	s.log.Debug().Int("width", width).Int("height", height).Msg("resizing viewport")
	s.actions <- action{kind: actionResize, width: width, height: height}
}

// dispatchInput forwards one translated event to the engine worker. The
// Router owns the readiness policy; by the time an event gets here it is
// cleared for delivery.
func (s *Session) dispatchInput(ev engine.InputEvent) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	s.actions <- action{kind: actionInput, input: ev}
}

// forwardTask hands an engine-affinity task to the worker.
func (s *Session) forwardTask(t engine.Task) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	s.actions <- action{kind: actionTask, task: t}
}

// pollTasks drains the engine's internal scheduler. Called from the host
// thread by the Loop Adapter; poll_tasks is the one engine entry point
// designed for cross-thread use.
func (s *Session) pollTasks() []engine.Task {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil
	}
	return s.eng.PollTasks(s.handle)
}

// Shutdown tears the engine instance down. Idempotent and safe to call from
// any thread. It waits up to the configured timeout for the engine to
// release its resources; on timeout it logs and proceeds so host-side
// teardown is never held hostage by a misbehaving engine. Done() signals
// actual completion.
func (s *Session) Shutdown() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		// The channel is never closed: late sends from racing callers
		// are filtered by the closed flag and, at worst, abandoned.
		s.actions <- action{kind: actionShutdown}

		select {
		case <-s.done:
		case <-time.After(s.shutdownTimeout):
			s.log.Warn().
				Dur("timeout", s.shutdownTimeout).
				Msg("engine did not release resources in time, proceeding with teardown")
		}

		if s.runtime != nil {
			s.runtime.Release()
		}
	})
}

// Done is closed once the engine instance has been destroyed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// LoadState returns the current navigation state. Safe from any thread.
func (s *Session) LoadState() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentURL returns the last committed URL.
func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentURL
}

// ViewportSize returns the viewport in device pixels.
func (s *Session) ViewportSize() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// ScaleFactor returns the widget-local to device-pixel scale.
func (s *Session) ScaleFactor() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

// run is the engine worker. It executes host-dispatched actions in order on
// a single goroutine until shutdown.
func (s *Session) run() {
	defer close(s.done)

	for a := range s.actions {
		switch a.kind {
		case actionLoad:
			if err := s.eng.Load(s.handle, a.url); err != nil {
				s.log.Warn().Err(err).Str("url", a.url).Msg("engine rejected load")
				// Route the failure through the same filter as
				// engine-emitted events so supersession applies.
				s.onLoadEvent(engine.LoadEvent{Phase: engine.LoadStarted, URL: a.url})
				s.onLoadEvent(engine.LoadEvent{Phase: engine.LoadFailed, Reason: err.Error()})
			}
		case actionResize:
			s.eng.Resize(s.handle, a.width, a.height)
		case actionInput:
			s.eng.DispatchInput(s.handle, a.input)
		case actionTask:
			a.task.Run()
		case actionSync:
			close(a.ack)
		case actionShutdown:
			s.eng.Destroy(s.handle)
			s.log.Debug().Msg("engine instance destroyed")
			return
		}
	}
}

// flush blocks until the worker has executed everything queued before it.
// Test hook.
func (s *Session) flush() {
	ack := make(chan struct{})
	s.actions <- action{kind: actionSync, ack: ack}
	<-ack
}

// onFrame is the engine's frame callback. Runs on the compositor thread:
// publish the frame, then nudge the host loop through the mailbox. Direct
// toolkit calls from here are forbidden.
func (s *Session) onFrame(f engine.Frame) {
	if s.frames.Submit(f) {
		s.mailbox.Post(Notice{Kind: NoticeFrame})
	}
}

// onLoadEvent filters engine load events against the newest navigation.
// Events from a superseded navigation are dropped from the moment LoadURL
// supersedes it until the Started of the new navigation, and a navigation
// emits at most one terminal event. Navigations the engine starts on its
// own (link clicks) open a new navigation when no host one is in flight.
// Runs on an engine thread.
func (s *Session) onLoadEvent(ev engine.LoadEvent) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if s.awaiting {
		if ev.Phase != engine.LoadStarted || ev.URL != s.targetURL {
			s.mu.Unlock()
			s.log.Trace().
				Str("phase", ev.Phase.String()).
				Str("url", ev.URL).
				Msg("dropping event from superseded navigation")
			return
		}
		s.awaiting = false
		s.emitting = true
		s.lastPhase = engine.LoadStarted
		s.mu.Unlock()
		s.mailbox.Post(Notice{Kind: NoticeLoad, Load: ev})
		return
	}

	if !s.emitting {
		// Between navigations, a fresh Started opens an engine-initiated
		// navigation (link click, meta refresh). Anything else is a
		// stray event from an already-terminated navigation.
		if ev.Phase != engine.LoadStarted {
			s.mu.Unlock()
			s.log.Trace().Str("phase", ev.Phase.String()).Msg("dropping stale load event")
			return
		}
		s.targetURL = ev.URL
		s.emitting = true
		s.lastPhase = engine.LoadStarted
		s.state = StateLoading
		s.mu.Unlock()
		s.log.Debug().Str("url", ev.URL).Msg("engine-initiated navigation")
		s.mailbox.Post(Notice{Kind: NoticeLoad, Load: ev})
		return
	}

	switch ev.Phase {
	case engine.LoadStarted:
		// Duplicate Started for an already-running navigation.
		s.mu.Unlock()
		return
	case engine.LoadCommitted:
		if s.lastPhase != engine.LoadStarted {
			s.mu.Unlock()
			return
		}
		s.lastPhase = engine.LoadCommitted
		s.currentURL = ev.URL
	case engine.LoadFinished:
		s.lastPhase = engine.LoadFinished
		s.state = StateLoaded
		s.emitting = false
	case engine.LoadFailed:
		s.lastPhase = engine.LoadFailed
		s.state = StateFailed
		s.emitting = false
	}
	s.mu.Unlock()
	s.mailbox.Post(Notice{Kind: NoticeLoad, Load: ev})
}
