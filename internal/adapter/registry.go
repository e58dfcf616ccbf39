// internal/adapter/registry.go
package adapter

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// KindEmulator is the in-process network emulator, used when no kind is set.
const KindEmulator = "emulator"

// Deps carries optional collaborators handed to a factory.
type Deps struct {
	Logger *slog.Logger
	Tap    Tap
}

// Factory builds one adapter instance.
type Factory func(deps Deps) Adapter

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes an adapter kind available to New.
// Implementations call it from init.
func Register(kind string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	if f == nil {
		panic("adapter: Register factory is nil")
	}
	if _, dup := factories[kind]; dup {
		panic("adapter: Register called twice for " + kind)
	}
	factories[kind] = f
}

// New creates an adapter of the given kind. An empty kind means emulator.
func New(kind string, deps Deps) (Adapter, error) {
	if kind == "" {
		kind = KindEmulator
	}

	factoriesMu.RLock()
	f, ok := factories[kind]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAdapter, kind)
	}
	return f(deps), nil
}

// Kinds lists registered adapter kinds.
func Kinds() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
