// Package enginetest provides a fake engine implementation for exercising
// the bridge without a real rendering engine.
package enginetest

import (
	"errors"
	"sync"

	"github.com/ravel-dev/weft/pkg/engine"
)

// Fake is an in-memory engine.Engine. It records every call and lets tests
// emit engine-originated events through the registered callbacks, standing
// in for the compositor and navigation threads of a real engine.
type Fake struct {
	mu sync.Mutex

	// CreateErr, when set, makes Create fail.
	CreateErr error
	// LoadErr, when set, makes Load return it.
	LoadErr error

	nextHandle engine.Handle
	created    int
	destroyed  int

	loads   []string
	resizes [][2]int
	inputs  []engine.InputEvent
	tasks   []engine.Task

	frameCb  func(engine.Frame)
	loadCb   func(engine.LoadEvent)
	titleCb  func(string)
	cursorCb func(string)
}

var _ engine.Engine = (*Fake)(nil)

func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) Create(cfg engine.Config) (engine.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return 0, f.CreateErr
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, errors.New("enginetest: zero-sized viewport")
	}
	f.nextHandle++
	f.created++
	f.resizes = append(f.resizes, [2]int{cfg.Width, cfg.Height})
	return f.nextHandle, nil
}

func (f *Fake) Load(_ engine.Handle, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoadErr != nil {
		return f.LoadErr
	}
	f.loads = append(f.loads, url)
	return nil
}

func (f *Fake) Resize(_ engine.Handle, width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resizes = append(f.resizes, [2]int{width, height})
}

func (f *Fake) DispatchInput(_ engine.Handle, ev engine.InputEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, ev)
}

func (f *Fake) PollTasks(_ engine.Handle) []engine.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.tasks
	f.tasks = nil
	return out
}

func (f *Fake) RegisterFrameCallback(_ engine.Handle, fn func(engine.Frame)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frameCb = fn
}

func (f *Fake) RegisterLoadCallback(_ engine.Handle, fn func(engine.LoadEvent)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCb = fn
}

func (f *Fake) RegisterTitleCallback(_ engine.Handle, fn func(string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleCb = fn
}

func (f *Fake) RegisterCursorCallback(_ engine.Handle, fn func(string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursorCb = fn
}

func (f *Fake) Destroy(_ engine.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed++
}

// QueueTasks adds pending tasks for the next PollTasks drain.
func (f *Fake) QueueTasks(tasks ...engine.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, tasks...)
}

// EmitFrame invokes the frame callback the way a compositor thread would.
func (f *Fake) EmitFrame(frame engine.Frame) {
	f.mu.Lock()
	cb := f.frameCb
	f.mu.Unlock()
	if cb != nil {
		cb(frame)
	}
}

// EmitLoad invokes the load callback.
func (f *Fake) EmitLoad(ev engine.LoadEvent) {
	f.mu.Lock()
	cb := f.loadCb
	f.mu.Unlock()
	if cb != nil {
		cb(ev)
	}
}

// EmitTitle invokes the title callback.
func (f *Fake) EmitTitle(title string) {
	f.mu.Lock()
	cb := f.titleCb
	f.mu.Unlock()
	if cb != nil {
		cb(title)
	}
}

// EmitCursor invokes the cursor callback.
func (f *Fake) EmitCursor(cursor string) {
	f.mu.Lock()
	cb := f.cursorCb
	f.mu.Unlock()
	if cb != nil {
		cb(cursor)
	}
}

// Loads returns every URL the engine was asked to load.
func (f *Fake) Loads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.loads...)
}

// Resizes returns every viewport size applied, including the initial one.
func (f *Fake) Resizes() [][2]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][2]int(nil), f.resizes...)
}

// Inputs returns every input event delivered.
func (f *Fake) Inputs() []engine.InputEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engine.InputEvent(nil), f.inputs...)
}

// Created and Destroyed count instance lifecycle calls.
func (f *Fake) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

func (f *Fake) Destroyed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed
}

// RuntimeFake wraps Fake with process-wide runtime state, for exercising
// refcounted engine-global init.
type RuntimeFake struct {
	Fake

	InitErr error

	mu        sync.Mutex
	inits     int
	shutdowns int
}

var _ engine.RuntimeProvider = (*RuntimeFake)(nil)

func (r *RuntimeFake) InitRuntime() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.InitErr != nil {
		return r.InitErr
	}
	r.inits++
	return nil
}

func (r *RuntimeFake) ShutdownRuntime() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdowns++
}

func (r *RuntimeFake) RuntimeInits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inits
}

func (r *RuntimeFake) RuntimeShutdowns() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shutdowns
}
