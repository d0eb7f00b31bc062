package cacheables

import (
	"context"
	"sort"
	"sync"
)

// Handle is the type-erased view of a wrapped function, for registry
// consumers that operate on functions by id.
type Handle interface {
	// FunctionID returns the function's cache identity.
	FunctionID() string

	// EnableCache activates caching for the function.
	EnableCache(opts ...EnableOption) (restore func())

	// DisableCache deactivates caching for the function.
	DisableCache() (restore func())

	// ClearCache removes every stored record for the function.
	ClearCache(ctx context.Context) error

	// ListInputs returns the stored input ids for the function.
	ListInputs(ctx context.Context) ([]string, error)
}

var registry = struct {
	mu    sync.RWMutex
	funcs map[string]Handle
}{funcs: make(map[string]Handle)}

// register adds a handle to the process registry. Wrapping the same
// function id twice replaces the earlier handle; entries are never
// removed.
func register(h Handle) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.funcs[h.FunctionID()] = h
}

// Lookup returns the registered handle for a function id.
func Lookup(functionID string) (Handle, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	h, ok := registry.funcs[functionID]
	return h, ok
}

// Registered returns the ids of all wrapped functions, sorted.
func Registered() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	ids := make([]string, 0, len(registry.funcs))
	for id := range registry.funcs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
