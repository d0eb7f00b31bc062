package policy

import (
	"sync"
	"testing"
)

func TestScope_PushPop(t *testing.T) {
	var s Scope

	restore := s.Push(EnableFrame(true, true))
	if s.Depth() != 1 {
		t.Fatalf("Depth after push = %d, want 1", s.Depth())
	}

	frames := s.Frames()
	if len(frames) != 1 || frames[0].Read != Enabled {
		t.Fatalf("Frames() = %+v, want one enabled frame", frames)
	}

	restore()
	if s.Depth() != 0 {
		t.Errorf("Depth after restore = %d, want 0", s.Depth())
	}

	// Restore is idempotent.
	restore()
	if s.Depth() != 0 {
		t.Errorf("Depth after double restore = %d, want 0", s.Depth())
	}
}

func TestScope_NestedRevert(t *testing.T) {
	var s Scope

	outer := s.Push(EnableFrame(true, false))
	inner := s.Push(EnableFrame(false, true))

	if d := Resolve(s.Frames(), nil, Unset); d.Read || d.Write {
		t.Errorf("inside inner scope: %+v, want both narrowed to false", d)
	}

	inner()
	if d := Resolve(s.Frames(), nil, Unset); !d.Read || d.Write {
		t.Errorf("after inner pops: %+v, want outer (read only)", d)
	}

	outer()
	if s.Depth() != 0 {
		t.Errorf("Depth = %d, want 0", s.Depth())
	}
}

// A frame pushed for a scope must be popped even when the scoped body
// panics, so deferring the restore is the required discipline.
func TestScope_PanicSafe(t *testing.T) {
	var s Scope

	func() {
		defer func() { _ = recover() }()
		defer s.Push(DisableFrame())()
		panic("wrapped function exploded")
	}()

	if s.Depth() != 0 {
		t.Errorf("Depth after panic = %d, want 0", s.Depth())
	}
}

func TestScope_OutOfOrderRelease(t *testing.T) {
	var s Scope

	first := s.Push(Frame{Read: Enabled})
	second := s.Push(Frame{Write: Enabled})

	// Releasing the older frame first must not disturb the newer one.
	first()
	frames := s.Frames()
	if len(frames) != 1 || frames[0].Write != Enabled {
		t.Fatalf("Frames() = %+v, want only the second frame", frames)
	}
	second()
	if s.Depth() != 0 {
		t.Errorf("Depth = %d, want 0", s.Depth())
	}
}

func TestScope_Concurrent(t *testing.T) {
	var s Scope
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			restore := s.Push(EnableFrame(true, true))
			_ = s.Frames()
			restore()
		}()
	}
	wg.Wait()

	if s.Depth() != 0 {
		t.Errorf("Depth after concurrent churn = %d, want 0", s.Depth())
	}
}
