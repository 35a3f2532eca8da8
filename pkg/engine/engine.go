// Package engine defines the boundary between the bridge and an embedded web
// rendering engine. The engine itself (HTML/CSS/JS, networking, compositing)
// is an external collaborator; this package only describes the surface the
// bridge needs to drive one.
package engine

// Handle identifies one live engine instance. Handles are opaque to the
// bridge and only meaningful to the Engine that issued them.
type Handle uint64

// Config holds the parameters an engine instance is created with.
type Config struct {
	// Initial viewport size in device pixels.
	Width  int
	Height int

	// ScaleFactor maps widget-local logical coordinates to device pixels.
	// Zero means 1.0.
	ScaleFactor float64

	// UserAgent overrides the engine default when non-empty.
	UserAgent string
}

// Engine is the embedded-engine boundary. Implementations wrap a real
// rendering engine (Servo, Ultralight, ...); tests use a fake.
//
// Callback registration must happen before the first Load. Callbacks are
// invoked from engine-owned threads; callers must not re-enter the Engine
// from inside a callback.
type Engine interface {
	// Create spins up one engine instance with an initial viewport.
	Create(cfg Config) (Handle, error)

	// Load begins navigating to url. Asynchronous: the outcome is reported
	// through the load callback.
	Load(h Handle, url string) error

	// Resize updates the viewport size in device pixels.
	Resize(h Handle, width, height int)

	// DispatchInput delivers one translated input event. Events must be
	// delivered in the order received.
	DispatchInput(h Handle, ev InputEvent)

	// PollTasks drains pending units of work from the engine's internal
	// scheduler. The caller decides when and where each task runs.
	PollTasks(h Handle) []Task

	RegisterFrameCallback(h Handle, fn func(Frame))
	RegisterLoadCallback(h Handle, fn func(LoadEvent))
	RegisterTitleCallback(h Handle, fn func(title string))
	RegisterCursorCallback(h Handle, fn func(cursor string))

	// Destroy releases the instance. Safe to call once per handle; the
	// handle is invalid afterwards.
	Destroy(h Handle)
}

// TaskAffinity says where a pending engine task may run.
type TaskAffinity int

const (
	// AffinityHost marks a task safe to run synchronously on the host
	// main-loop thread.
	AffinityHost TaskAffinity = iota
	// AffinityEngine marks a task that must run on an engine-owned thread.
	AffinityEngine
)

// Task is one unit of work queued by the engine's internal scheduler.
// It is owned by whoever drained it until executed exactly once.
type Task struct {
	Affinity TaskAffinity
	Run      func()
}
