package policy

import "sync"

// Scope is a mutex-guarded stack of enablement frames. The zero value is
// an empty scope, ready to use.
//
// Contract:
//   - Concurrency: safe for concurrent use. The lock is held only across
//     the stack mutation, never across the wrapped function's execution.
//   - Push returns a restore func that pops the pushed frame; callers
//     defer it so the frame is popped on every exit path, including
//     panics. Restore is idempotent.
type Scope struct {
	mu     sync.Mutex
	frames []*Frame
}

// Push activates a frame on this scope and returns its restore func.
func (s *Scope) Push(f Frame) (restore func()) {
	fp := &f
	s.mu.Lock()
	s.frames = append(s.frames, fp)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(fp) })
	}
}

// remove pops fp. Frames are normally released in LIFO order, but a
// caller releasing out of order only removes its own frame.
func (s *Scope) remove(fp *Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i] == fp {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			return
		}
	}
}

// Frames returns a snapshot of the active frames, oldest first.
func (s *Scope) Frames() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Frame, len(s.frames))
	for i, fp := range s.frames {
		out[i] = *fp
	}
	return out
}

// Depth reports the number of active frames.
func (s *Scope) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}
