package ui

import (
	"errors"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ravel-dev/weft/internal/bridge"
	"github.com/ravel-dev/weft/pkg/engine"
)

// Default viewport when the caller does not size the widget before realize.
const (
	defaultWidth  = 800
	defaultHeight = 600
)

// Options configures a Widget.
type Options struct {
	// Engine is the embedded engine to host. Required.
	Engine engine.Engine

	// Toolkit is the host main-loop/paint surface. Required.
	Toolkit Toolkit

	Logger zerolog.Logger

	// Session tunes the underlying engine session. Zero values get
	// defaults (800x600 viewport, scale 1.0).
	Session bridge.Config

	// PumpBatch bounds notices and tasks handled per pump pass.
	PumpBatch int
}

// Widget is the public face of the bridge: one interactive web view. It
// holds no engine state itself; navigation state lives in the session, and
// the only state crossing the engine/host boundary in the steady-state path
// is the frame slot.
type Widget struct {
	log     zerolog.Logger
	toolkit Toolkit

	session *bridge.Session
	frames  *bridge.FrameBuffer
	router  *bridge.Router
	pump    *bridge.Pump
	mailbox *bridge.Mailbox

	mu              sync.Mutex
	onLoadStarted   func(url string)
	onLoadFinished  func()
	onLoadFailed    func(reason string)
	onTitleChanged  func(title string)
	onCursorChanged func(cursor string)
	closed          bool
}

// New composes the bridge around one engine instance. A nil engine or
// toolkit is a programming error; an engine that fails to start returns
// engine.ErrEngineUnavailable and the widget stays inert.
func New(opts Options) (*Widget, error) {
	if opts.Engine == nil {
		return nil, errors.New("ui: Options.Engine is required")
	}
	if opts.Toolkit == nil {
		return nil, errors.New("ui: Options.Toolkit is required")
	}
	if opts.Session.Engine.Width <= 0 || opts.Session.Engine.Height <= 0 {
		opts.Session.Engine.Width = defaultWidth
		opts.Session.Engine.Height = defaultHeight
	}

	w := &Widget{
		log:     opts.Logger.With().Str("component", "widget").Logger(),
		toolkit: opts.Toolkit,
		frames:  bridge.NewFrameBuffer(),
	}
	w.mailbox = bridge.NewMailbox(nil)

	session, err := bridge.NewSession(opts.Logger, opts.Engine, w.frames, w.mailbox, opts.Session)
	if err != nil {
		w.mailbox.Close()
		return nil, err
	}
	w.session = session
	w.router = bridge.NewRouter(opts.Logger, session)
	w.pump = bridge.NewPump(opts.Logger, session, w.mailbox, w.handleNotice, opts.PumpBatch)

	// The wake goes in only once the pump exists: engine callbacks can fire
	// the moment the session registers them, and a toolkit that dispatches
	// idle callbacks promptly would otherwise pump a half-built widget.
	// Notices posted in the meantime are flushed by SetWake.
	w.mailbox.SetWake(func() {
		// Engine thread: hand the pump to the host loop.
		opts.Toolkit.IdleAdd(w.pumpOnce)
	})
	return w, nil
}

// LoadURL starts navigating. Invalid URLs fail synchronously with
// engine.ErrInvalidURL; everything else arrives through the load handlers.
func (w *Widget) LoadURL(url string) error {
	return w.session.LoadURL(url)
}

// Resize applies a widget-local size; the session receives device pixels.
// Re-applying the current size is a no-op.
func (w *Widget) Resize(width, height int) {
	scale := w.session.ScaleFactor()
	w.session.Resize(
		int(math.Round(float64(width)*scale)),
		int(math.Round(float64(height)*scale)),
	)
}

// HandleInput feeds one host input event into the router. Events before the
// first navigation are dropped by policy.
func (w *Widget) HandleInput(ev engine.InputEvent) {
	w.router.Route(ev)
}

// Pump lets the engine make progress from the host loop. Returns whether
// more work is pending. Exposed for hosts driving the widget from their own
// tick source.
func (w *Widget) Pump() bool {
	return w.pump.Pump()
}

// TakeFrame returns the newest unconsumed frame, or nil. Paint path only.
func (w *Widget) TakeFrame() *engine.Frame {
	return w.frames.TakeLatest()
}

// CurrentURL returns the last committed URL.
func (w *Widget) CurrentURL() string {
	return w.session.CurrentURL()
}

// LoadState exposes the session's navigation state.
func (w *Widget) LoadState() bridge.LoadState {
	return w.session.LoadState()
}

// DroppedInput reports how many input events the idle policy discarded.
func (w *Widget) DroppedInput() uint64 {
	return w.router.Dropped()
}

// Close tears the widget down: shuts the engine session down and stops
// notification delivery. Idempotent.
func (w *Widget) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.session.Shutdown()
	w.mailbox.Close()
	w.log.Debug().Msg("widget closed")
}

func (w *Widget) RegisterLoadStartedHandler(handler func(url string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onLoadStarted = handler
}

func (w *Widget) RegisterLoadFinishedHandler(handler func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onLoadFinished = handler
}

func (w *Widget) RegisterLoadFailedHandler(handler func(reason string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onLoadFailed = handler
}

func (w *Widget) RegisterTitleChangedHandler(handler func(title string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onTitleChanged = handler
}

func (w *Widget) RegisterCursorChangedHandler(handler func(cursor string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onCursorChanged = handler
}

// pumpOnce is the idle callback scheduled by the mailbox wakeup. If a pass
// leaves work pending, it re-arms itself rather than hogging the loop.
func (w *Widget) pumpOnce() {
	if w.pump.Pump() {
		w.toolkit.IdleAdd(w.pumpOnce)
	}
}

// handleNotice runs on the host thread and turns bridge notices into
// toolkit-facing effects: paint invalidation and signal emission.
func (w *Widget) handleNotice(n bridge.Notice) {
	switch n.Kind {
	case bridge.NoticeFrame:
		w.toolkit.QueueDraw()

	case bridge.NoticeLoad:
		switch n.Load.Phase {
		case engine.LoadStarted:
			if h := w.loadStartedHandler(); h != nil {
				h(n.Load.URL)
			}
		case engine.LoadCommitted:
			w.log.Debug().Str("url", n.Load.URL).Msg("navigation committed")
		case engine.LoadFinished:
			if h := w.loadFinishedHandler(); h != nil {
				h()
			}
		case engine.LoadFailed:
			w.log.Warn().Str("reason", n.Load.Reason).Msg("load failed")
			if h := w.loadFailedHandler(); h != nil {
				h(n.Load.Reason)
			}
		}

	case bridge.NoticeTitle:
		if h := w.titleChangedHandler(); h != nil {
			h(n.Title)
		}

	case bridge.NoticeCursor:
		if h := w.cursorChangedHandler(); h != nil {
			h(n.Cursor)
		}
	}
}

func (w *Widget) loadStartedHandler() func(string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onLoadStarted
}

func (w *Widget) loadFinishedHandler() func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onLoadFinished
}

func (w *Widget) loadFailedHandler() func(string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onLoadFailed
}

func (w *Widget) titleChangedHandler() func(string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onTitleChanged
}

func (w *Widget) cursorChangedHandler() func(string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onCursorChanged
}
