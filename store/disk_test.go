package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonwraymond/cacheables/key"
)

func newDiskStore(t *testing.T) *DiskStore {
	t.Helper()
	return NewDisk(t.TempDir())
}

func testMeta(inputID, outputID string) Metadata {
	return NewMetadata(inputID, outputID, CodecInfo{Name: "json", Extension: "json"},
		map[string]string{"text": "hello"})
}

func TestDiskStore_Layout(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()
	ik := key.InputKey{FunctionID: "pkg.Fn", InputID: "aaaa000011112222"}

	if err := s.Write(ctx, ik, []byte(`"hi"`), testMeta(ik.InputID, "bbbb000011112222")); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	inputDir := filepath.Join(s.Base(), "functions", "pkg.Fn", "inputs", ik.InputID)
	if s.InputPath(ik) != inputDir {
		t.Errorf("InputPath = %s, want %s", s.InputPath(ik), inputDir)
	}
	if _, err := os.Stat(filepath.Join(inputDir, "bbbb000011112222.json")); err != nil {
		t.Errorf("output file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(inputDir, "metadata.json")); err != nil {
		t.Errorf("metadata.json missing: %v", err)
	}

	path, err := s.OutputPath(ctx, ik)
	if err != nil {
		t.Fatalf("OutputPath error: %v", err)
	}
	if path != filepath.Join(inputDir, "bbbb000011112222.json") {
		t.Errorf("OutputPath = %s", path)
	}
}

func TestDiskStore_RoundTrip(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()
	ik := key.InputKey{FunctionID: "pkg.Fn", InputID: "in1"}

	ok, err := s.Exists(ctx, ik)
	if err != nil || ok {
		t.Fatalf("Exists on empty store = (%v, %v), want (false, nil)", ok, err)
	}
	if _, err := s.Read(ctx, ik); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read on empty store error = %v, want ErrNotFound", err)
	}

	if err := s.Write(ctx, ik, []byte("payload"), testMeta("in1", "out1")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	ok, err = s.Exists(ctx, ik)
	if err != nil || !ok {
		t.Fatalf("Exists after write = (%v, %v), want (true, nil)", ok, err)
	}
	data, err := s.Read(ctx, ik)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Read = %q, want %q", data, "payload")
	}

	// Reading bumps last-accessed.
	meta, err := s.ReadMetadata(ctx, ik)
	if err != nil {
		t.Fatalf("ReadMetadata error: %v", err)
	}
	if meta.LastAccessed == nil {
		t.Error("LastAccessed not set after Read")
	}
	if meta.Arguments["text"] != "hello" {
		t.Errorf("Arguments = %v", meta.Arguments)
	}
}

// Overwriting replaces the output file: the old output id must not
// linger beside the new one.
func TestDiskStore_OverwriteReplaces(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()
	ik := key.InputKey{FunctionID: "pkg.Fn", InputID: "in1"}

	if err := s.Write(ctx, ik, []byte("v1"), testMeta("in1", "out1")); err != nil {
		t.Fatalf("first Write error: %v", err)
	}
	if err := s.Write(ctx, ik, []byte("v2"), testMeta("in1", "out2")); err != nil {
		t.Fatalf("second Write error: %v", err)
	}

	entries, err := os.ReadDir(s.InputPath(ik))
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	var outputs []string
	for _, e := range entries {
		if e.Name() != "metadata.json" {
			outputs = append(outputs, e.Name())
		}
	}
	if len(outputs) != 1 || outputs[0] != "out2.json" {
		t.Errorf("output files = %v, want [out2.json]", outputs)
	}
}

func TestDiskStore_EvictClearList(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()
	fk := key.FunctionKey{FunctionID: "pkg.Fn"}
	ik1 := key.InputKey{FunctionID: fk.FunctionID, InputID: "in1"}
	ik2 := key.InputKey{FunctionID: fk.FunctionID, InputID: "in2"}

	for _, ik := range []key.InputKey{ik1, ik2} {
		if err := s.Write(ctx, ik, []byte("x"), testMeta(ik.InputID, "out")); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}

	keys, err := s.List(ctx, fk)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("List = %v, want 2 keys", keys)
	}

	if err := s.Evict(ctx, ik1); err != nil {
		t.Fatalf("Evict error: %v", err)
	}
	if ok, _ := s.Exists(ctx, ik1); ok {
		t.Error("ik1 still exists after Evict")
	}
	if ok, _ := s.Exists(ctx, ik2); !ok {
		t.Error("ik2 gone after evicting ik1")
	}

	// Evict is idempotent.
	if err := s.Evict(ctx, ik1); err != nil {
		t.Errorf("second Evict error: %v", err)
	}

	if err := s.Clear(ctx, fk); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	keys, err = s.List(ctx, fk)
	if err != nil {
		t.Fatalf("List after Clear error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List after Clear = %v, want empty", keys)
	}

	// Clear on an absent function is not an error.
	if err := s.Clear(ctx, key.FunctionKey{FunctionID: "pkg.Missing"}); err != nil {
		t.Errorf("Clear on missing function error: %v", err)
	}
}

func TestDiskStore_Adopt(t *testing.T) {
	s := newDiskStore(t)
	ctx := context.Background()
	from := key.FunctionKey{FunctionID: "pkg.Old"}
	to := key.FunctionKey{FunctionID: "pkg.New"}
	ik := key.InputKey{FunctionID: from.FunctionID, InputID: "in1"}

	if err := s.Write(ctx, ik, []byte("payload"), testMeta("in1", "out1")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := s.Adopt(ctx, from, to); err != nil {
		t.Fatalf("Adopt error: %v", err)
	}

	adopted := key.InputKey{FunctionID: to.FunctionID, InputID: "in1"}
	data, err := s.Read(ctx, adopted)
	if err != nil {
		t.Fatalf("Read after Adopt error: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Read = %q, want %q", data, "payload")
	}
	if ok, _ := s.Exists(ctx, ik); ok {
		t.Error("record still present under old function id")
	}
}

func TestNewDisk_BaseResolution(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		dir := t.TempDir()
		if got := NewDisk(dir).Base(); got != dir {
			t.Errorf("Base = %s, want %s", got, dir)
		}
	})
	t.Run("env override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvDiskPath, dir)
		if got := NewDisk("").Base(); got != dir {
			t.Errorf("Base = %s, want %s", got, dir)
		}
	})
	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvDiskPath, "")
		got := NewDisk("").Base()
		if filepath.Base(got) != DefaultDiskDir {
			t.Errorf("Base = %s, want suffix %s", got, DefaultDiskDir)
		}
	})
}
