package key

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
)

var hexID = regexp.MustCompile(`^[0-9a-f]{16}$`)

func TestInputID_ValueSemantics(t *testing.T) {
	d := NewDeriver()

	// Equal by value, different identity.
	a := []Argument{{Name: "x", Value: map[string]int{"k": 1}}}
	b := []Argument{{Name: "x", Value: map[string]int{"k": 1}}}

	ida, err := d.InputID("pkg.Fn", a)
	if err != nil {
		t.Fatalf("InputID(a) error: %v", err)
	}
	idb, err := d.InputID("pkg.Fn", b)
	if err != nil {
		t.Fatalf("InputID(b) error: %v", err)
	}
	if ida != idb {
		t.Errorf("value-equal arguments: %s != %s", ida, idb)
	}
	if !hexID.MatchString(ida) {
		t.Errorf("InputID = %q, want %d lowercase hex chars", ida, DigestLength)
	}
}

func TestInputID_Sensitivity(t *testing.T) {
	d := NewDeriver()
	base := []Argument{{Name: "a", Value: 1}, {Name: "b", Value: 2}}

	baseID, err := d.InputID("pkg.Fn", base)
	if err != nil {
		t.Fatalf("InputID(base) error: %v", err)
	}

	tests := []struct {
		name       string
		functionID string
		args       []Argument
	}{
		{"swapped values", "pkg.Fn", []Argument{{Name: "a", Value: 2}, {Name: "b", Value: 1}}},
		{"different value", "pkg.Fn", []Argument{{Name: "a", Value: 1}, {Name: "b", Value: 3}}},
		{"renamed argument", "pkg.Fn", []Argument{{Name: "a", Value: 1}, {Name: "c", Value: 2}}},
		{"different function", "pkg.Other", base},
		{"dropped argument", "pkg.Fn", base[:1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := d.InputID(tt.functionID, tt.args)
			if err != nil {
				t.Fatalf("InputID error: %v", err)
			}
			if id == baseID {
				t.Errorf("InputID unchanged (%s), want different from base", id)
			}
		})
	}
}

func TestInputID_Unhashable(t *testing.T) {
	d := NewDeriver()
	_, err := d.InputID("pkg.Fn", []Argument{{Name: "cb", Value: func() {}}})
	if !errors.Is(err, ErrUnhashableArgument) {
		t.Fatalf("InputID error = %v, want ErrUnhashableArgument", err)
	}
	if !strings.Contains(err.Error(), `"cb"`) {
		t.Errorf("error %q does not name the argument", err)
	}
}

// TestValueDigest_Memoized verifies the memo returns identical digests and
// tolerates concurrent derivation of the same value.
func TestValueDigest_Memoized(t *testing.T) {
	d := NewDeriver()
	payload := strings.Repeat("large deterministic payload ", 1024)

	first, err := d.ValueDigest(payload)
	if err != nil {
		t.Fatalf("ValueDigest error: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dg, err := d.ValueDigest(payload)
			if err != nil {
				t.Errorf("concurrent ValueDigest error: %v", err)
				return
			}
			results[i] = dg
		}(i)
	}
	wg.Wait()

	for i, dg := range results {
		if dg != first {
			t.Errorf("results[%d] = %s, want %s", i, dg, first)
		}
	}
}

func TestOutputID_Idempotent(t *testing.T) {
	payload := []byte("serialized output")
	a, b := OutputID(payload), OutputID(payload)
	if a != b {
		t.Errorf("OutputID not idempotent: %s != %s", a, b)
	}
	if !hexID.MatchString(a) {
		t.Errorf("OutputID = %q, want %d lowercase hex chars", a, DigestLength)
	}
	if c := OutputID([]byte("other")); c == a {
		t.Errorf("distinct payloads share OutputID %s", c)
	}
}
