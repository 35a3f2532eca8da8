package engine

import "sync"

// RuntimeProvider is implemented by engines that require a single
// process-wide initialization (resource loaders, crypto providers, GPU
// contexts) before any instance can be created.
type RuntimeProvider interface {
	InitRuntime() error
	ShutdownRuntime()
}

// Runtime refcounts an engine's process-wide state. The first Acquire runs
// InitRuntime, the last Release runs ShutdownRuntime. Sessions sharing one
// engine share one Runtime.
type Runtime struct {
	mu       sync.Mutex
	refs     int
	provider RuntimeProvider
}

func NewRuntime(p RuntimeProvider) *Runtime {
	return &Runtime{provider: p}
}

// Acquire takes a reference, initializing the provider on the first one.
// On error no reference is held.
func (r *Runtime) Acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		if err := r.provider.InitRuntime(); err != nil {
			return err
		}
	}
	r.refs++
	return nil
}

// Release drops a reference, shutting the provider down on the last one.
// Releasing an unheld Runtime is a no-op.
func (r *Runtime) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		return
	}
	r.refs--
	if r.refs == 0 {
		r.provider.ShutdownRuntime()
	}
}

var (
	sharedMu       sync.Mutex
	sharedRuntimes map[RuntimeProvider]*Runtime
)

// SharedRuntime returns the process-wide Runtime for p, creating it on first
// use. Returns nil when the engine needs no global state (e is not a
// RuntimeProvider).
func SharedRuntime(e Engine) *Runtime {
	p, ok := e.(RuntimeProvider)
	if !ok {
		return nil
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedRuntimes == nil {
		sharedRuntimes = make(map[RuntimeProvider]*Runtime)
	}
	rt, ok := sharedRuntimes[p]
	if !ok {
		rt = NewRuntime(p)
		sharedRuntimes[p] = rt
	}
	return rt
}
