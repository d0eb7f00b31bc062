package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonwraymond/cacheables/codec"
	"github.com/jonwraymond/cacheables/key"
	"github.com/jonwraymond/cacheables/store"
)

// seedRecord writes one json-encoded record into dir and returns its key.
func seedRecord(t *testing.T, dir, functionID, inputID string, value any) key.InputKey {
	t.Helper()

	cd := codec.JSONCodec{}
	data, err := cd.Encode(value)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	ik := key.InputKey{FunctionID: functionID, InputID: inputID}
	meta := store.NewMetadata(inputID, key.OutputID(data),
		store.CodecInfo{Name: cd.Name(), Extension: cd.Extension()}, nil)
	if err := store.NewDisk(dir).Write(context.Background(), ik, data, meta); err != nil {
		t.Fatalf("write: %v", err)
	}
	return ik
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_List(t *testing.T) {
	dir := t.TempDir()
	seedRecord(t, dir, "pkg.Fib", "aaaa000011112222", 42)
	seedRecord(t, dir, "pkg.Fib", "bbbb000011112222", 43)

	out, err := runCLI(t, "--dir", dir, "list", "pkg.Fib")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "aaaa000011112222") || !strings.Contains(out, "bbbb000011112222") {
		t.Errorf("expected both input ids, got:\n%s", out)
	}
}

func TestCLI_InspectWithOutput(t *testing.T) {
	dir := t.TempDir()
	ik := seedRecord(t, dir, "pkg.Fib", "aaaa000011112222", 42)

	out, err := runCLI(t, "--dir", dir, "inspect", "--output", ik.FunctionID, ik.InputID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"input_id": "aaaa000011112222"`) {
		t.Errorf("expected metadata in output, got:\n%s", out)
	}
	if !strings.Contains(out, "42") {
		t.Errorf("expected decoded output value, got:\n%s", out)
	}
}

func TestCLI_Path(t *testing.T) {
	dir := t.TempDir()
	ik := seedRecord(t, dir, "pkg.Fib", "aaaa000011112222", 42)

	out, err := runCLI(t, "--dir", dir, "path", ik.FunctionID, ik.InputID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := strings.TrimSpace(out)
	if !strings.HasSuffix(path, ".json") {
		t.Errorf("expected output file path, got %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("printed path does not exist: %v", err)
	}
}

func TestCLI_EvictAndClear(t *testing.T) {
	dir := t.TempDir()
	ik := seedRecord(t, dir, "pkg.Fib", "aaaa000011112222", 42)
	seedRecord(t, dir, "pkg.Fib", "bbbb000011112222", 43)

	if _, err := runCLI(t, "--dir", dir, "evict", ik.FunctionID, ik.InputID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := runCLI(t, "--dir", dir, "list", "pkg.Fib")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "aaaa000011112222") {
		t.Errorf("expected evicted id gone, got:\n%s", out)
	}

	if _, err := runCLI(t, "--dir", dir, "clear", "pkg.Fib"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err = runCLI(t, "--dir", dir, "list", "pkg.Fib")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Errorf("expected empty list after clear, got:\n%s", out)
	}
}

func TestCLI_Adopt(t *testing.T) {
	dir := t.TempDir()
	ik := seedRecord(t, dir, "pkg.Old", "aaaa000011112222", 42)

	if _, err := runCLI(t, "--dir", dir, "adopt", "pkg.Old", "pkg.New"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := runCLI(t, "--dir", dir, "list", "pkg.New")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, ik.InputID) {
		t.Errorf("expected adopted record under new id, got:\n%s", out)
	}
}

func TestCLI_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	seedRecord(t, dir, "pkg.Fib", "aaaa000011112222", 42)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("dir: "+dir+"\ncodec: json\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCLI(t, "--config", cfgPath, "list", "pkg.Fib")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "aaaa000011112222") {
		t.Errorf("expected config dir to be used, got:\n%s", out)
	}
}

func TestCLI_InspectMissingRecord(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, "--dir", dir, "inspect", "pkg.Fib", "nope")
	if err == nil {
		t.Fatal("expected error for missing record")
	}
}
