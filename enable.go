package cacheables

import "github.com/jonwraymond/cacheables/policy"

// EnableOption refines an enablement frame.
type EnableOption func(*policy.Frame)

// WithRead sets the frame's read flag explicitly.
func WithRead(enabled bool) EnableOption {
	return func(f *policy.Frame) { f.Read = policy.Of(enabled) }
}

// WithWrite sets the frame's write flag explicitly.
func WithWrite(enabled bool) EnableOption {
	return func(f *policy.Frame) { f.Write = policy.Of(enabled) }
}

// WithFilter attaches an output filter to the frame. On read, a rejected
// stored value is treated as a miss (or an error, per the function's
// FilterRejectMode); on write, a rejected computed value is not persisted.
func WithFilter(filter func(output any) bool) EnableOption {
	return func(f *policy.Frame) { f.Filter = filter }
}

func buildFrame(opts []EnableOption) policy.Frame {
	frame := policy.EnableFrame(true, true)
	for _, opt := range opts {
		opt(&frame)
	}
	return frame
}

// EnableCache activates caching for this function and returns a restore
// func that deactivates it again. Deferring the restore scopes the
// activation to the surrounding block; discarding it toggles the function
// on for the rest of the process:
//
//	defer f.EnableCache()()        // scoped
//	f.EnableCache()                // process lifetime
//
// Activations stack, and the most restrictive active setting wins per
// flag, so a nested frame can only narrow what an outer frame granted.
func (f *Func[I, O]) EnableCache(opts ...EnableOption) (restore func()) {
	return f.scope.Push(buildFrame(opts))
}

// DisableCache pushes a frame disabling both reads and writes for this
// function. Disabled wins over any enclosing enablement.
func (f *Func[I, O]) DisableCache() (restore func()) {
	return f.scope.Push(policy.DisableFrame())
}

// globalScope holds process-wide frames, consulted by every wrapped
// function alongside its own scope.
var globalScope policy.Scope

// EnableAll activates caching for every wrapped function, including
// functions wrapped after the call. Restore semantics match EnableCache.
func EnableAll(opts ...EnableOption) (restore func()) {
	return globalScope.Push(buildFrame(opts))
}

// DisableAll disables caching process-wide. Disabled wins over
// per-function enablement.
func DisableAll() (restore func()) {
	return globalScope.Push(policy.DisableFrame())
}
