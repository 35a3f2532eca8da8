package engine

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Engine)
)

// Register makes an engine factory available by name, typically from an
// implementation package's init. Registering a duplicate name or a nil
// factory panics, same as database/sql drivers.
func Register(name string, factory func() Engine) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("engine: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("engine: Register called twice for engine " + name)
	}
	registry[name] = factory
}

// Open instantiates a registered engine. An empty name picks the sole
// registered engine when there is exactly one.
func Open(name string) (Engine, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if name == "" {
		if len(registry) == 1 {
			for _, factory := range registry {
				return factory(), nil
			}
		}
		return nil, fmt.Errorf("%w: %d engines registered, name required", ErrEngineUnavailable, len(registry))
	}

	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown engine %q (registered: %v)", ErrEngineUnavailable, name, registeredLocked())
	}
	return factory(), nil
}

// Registered lists registered engine names, sorted.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registeredLocked()
}

func registeredLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
