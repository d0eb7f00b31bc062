package cacheables

import (
	"strings"

	"github.com/jonwraymond/cacheables/codec"
	"github.com/jonwraymond/cacheables/observe"
	"github.com/jonwraymond/cacheables/store"
)

// FilterRejectMode controls what happens when the active filter rejects a
// value loaded from the cache.
type FilterRejectMode int

const (
	// RecomputeOnReject treats the rejected record as a miss and executes
	// the wrapped function.
	RecomputeOnReject FilterRejectMode = iota

	// ErrorOnReject fails the call with ErrFilteredOutput instead of
	// recomputing.
	ErrorOnReject
)

// config collects the per-function collaborators resolved at Wrap time.
type config struct {
	functionID string
	store      store.Store
	codec      codec.Codec
	exclude    func(name string) bool
	events     *observe.Events
	rejectMode FilterRejectMode
	noRegister bool
}

// Option configures a wrapped function.
type Option func(*config)

// WithFunctionID sets an explicit function id instead of the
// module-qualified name. Required for closures, whose runtime names are
// not stable across refactors.
func WithFunctionID(id string) Option {
	return func(c *config) { c.functionID = id }
}

// WithStore sets the storage backend. Defaults to a DiskStore rooted at
// CACHEABLES_DISK_PATH or ./.cacheables.
func WithStore(s store.Store) Option {
	return func(c *config) { c.store = s }
}

// WithCodec sets the output serializer. Defaults to msgpack.
func WithCodec(cd codec.Codec) Option {
	return func(c *config) { c.codec = cd }
}

// WithExcludeArgs removes the named arguments from input-id derivation,
// for parameters that do not affect the output (verbosity flags, progress
// callbacks). Replaces the default predicate, which excludes names
// beginning with an underscore.
func WithExcludeArgs(names ...string) Option {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(c *config) {
		c.exclude = func(name string) bool { return set[name] }
	}
}

// WithExcludeFunc sets a custom exclusion predicate over argument names.
func WithExcludeFunc(exclude func(name string) bool) Option {
	return func(c *config) { c.exclude = exclude }
}

// WithObserver wires the function's telemetry to an Observer. Without it
// calls are not traced or logged.
func WithObserver(obs observe.Observer) Option {
	return func(c *config) {
		if ev, err := observe.EventsFromObserver(obs); err == nil {
			c.events = ev
		}
	}
}

// WithEvents wires a prebuilt Events recorder, typically shared across
// functions.
func WithEvents(ev *observe.Events) Option {
	return func(c *config) { c.events = ev }
}

// WithFilterRejectMode sets the behavior when a filter rejects a loaded
// value. Defaults to RecomputeOnReject.
func WithFilterRejectMode(mode FilterRejectMode) Option {
	return func(c *config) { c.rejectMode = mode }
}

// WithoutRegistry skips global registration, keeping the function out of
// Lookup and Registered. Used by tests that wrap throwaway functions.
func WithoutRegistry() Option {
	return func(c *config) { c.noRegister = true }
}

// defaultExclude drops argument names beginning with an underscore. Struct
// fields cannot start with one in Go, so this mainly affects map inputs;
// the cache:"-" tag is the field-level spelling.
func defaultExclude(name string) bool {
	return strings.HasPrefix(name, "_")
}
