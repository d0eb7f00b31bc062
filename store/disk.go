package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jonwraymond/cacheables/key"
)

// EnvDiskPath overrides the default disk store location.
const EnvDiskPath = "CACHEABLES_DISK_PATH"

// DefaultDiskDir is the base directory used when neither an explicit path
// nor EnvDiskPath is set, relative to the working directory.
const DefaultDiskDir = ".cacheables"

// DiskStore persists records under
//
//	<base>/functions/<function-id>/inputs/<input-id>/<output-id>.<ext>
//
// with a sibling metadata.json per input. Writing replaces the whole
// input directory, so at most one output file exists per input id.
type DiskStore struct {
	base string
}

// NewDisk returns a disk store rooted at base. An empty base falls back
// to EnvDiskPath, then to ./.cacheables. The directory is created lazily
// on first write.
func NewDisk(base string) *DiskStore {
	if base == "" {
		base = os.Getenv(EnvDiskPath)
	}
	if base == "" {
		base = DefaultDiskDir
	}
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	return &DiskStore{base: base}
}

// Base returns the resolved base directory.
func (s *DiskStore) Base() string { return s.base }

func (s *DiskStore) functionsPath() string {
	return filepath.Join(s.base, "functions")
}

func (s *DiskStore) functionPath(fk key.FunctionKey) string {
	return filepath.Join(s.functionsPath(), fk.FunctionID)
}

func (s *DiskStore) inputsPath(fk key.FunctionKey) string {
	return filepath.Join(s.functionPath(fk), "inputs")
}

// InputPath returns the directory holding one input's record. Pure path
// computation, no I/O.
func (s *DiskStore) InputPath(ik key.InputKey) string {
	return filepath.Join(s.inputsPath(ik.FunctionKey()), ik.InputID)
}

func (s *DiskStore) metadataPath(ik key.InputKey) string {
	return filepath.Join(s.InputPath(ik), "metadata.json")
}

func (s *DiskStore) outputFile(ik key.InputKey, meta Metadata) string {
	ext := meta.Codec.Extension
	if ext == "" {
		ext = "bin"
	}
	return filepath.Join(s.InputPath(ik), meta.OutputID+"."+ext)
}

func (s *DiskStore) Exists(ctx context.Context, ik key.InputKey) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(s.metadataPath(ik))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (s *DiskStore) ReadMetadata(ctx context.Context, ik key.InputKey) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	data, err := os.ReadFile(s.metadataPath(ik))
	if errors.Is(err, fs.ErrNotExist) {
		return Metadata{}, fmt.Errorf("%w: %s/%s", ErrNotFound, ik.FunctionID, ik.InputID)
	}
	if err != nil {
		return Metadata{}, err
	}
	return decodeMetadata(data)
}

func (s *DiskStore) Read(ctx context.Context, ik key.InputKey) ([]byte, error) {
	meta, err := s.ReadMetadata(ctx, ik)
	if err != nil {
		return nil, err
	}
	output, err := os.ReadFile(s.outputFile(ik, meta))
	if err != nil {
		return nil, err
	}
	// Access tracking is best effort; a failed touch never fails a read.
	meta.Touch(time.Now())
	if data, err := meta.encode(); err == nil {
		_ = os.WriteFile(s.metadataPath(ik), data, 0o644)
	}
	return output, nil
}

func (s *DiskStore) Write(ctx context.Context, ik key.InputKey, output []byte, meta Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Replace the input directory wholesale so a previous output with a
	// different output id does not linger.
	dir := s.InputPath(ik)
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(s.outputFile(ik, meta), output, 0o644); err != nil {
		return err
	}
	data, err := meta.encode()
	if err != nil {
		return err
	}
	return os.WriteFile(s.metadataPath(ik), data, 0o644)
}

func (s *DiskStore) Evict(ctx context.Context, ik key.InputKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(s.InputPath(ik))
}

func (s *DiskStore) Clear(ctx context.Context, fk key.FunctionKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(s.functionPath(fk))
}

func (s *DiskStore) List(ctx context.Context, fk key.FunctionKey) ([]key.InputKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.inputsPath(fk))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	keys := make([]key.InputKey, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		keys = append(keys, key.InputKey{FunctionID: fk.FunctionID, InputID: e.Name()})
	}
	return keys, nil
}

// Adopt moves every record under from to to, merging into any existing
// records there. Input ids already present under to are overwritten:
// they identify the same argument set.
func (s *DiskStore) Adopt(ctx context.Context, from, to key.FunctionKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	keys, err := s.List(ctx, from)
	if err != nil {
		return err
	}
	for _, ik := range keys {
		src := s.InputPath(ik)
		dst := s.InputPath(key.InputKey{FunctionID: to.FunctionID, InputID: ik.InputID})
		if err := os.RemoveAll(dst); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.Rename(src, dst); err != nil {
			// Rename can fail across filesystems; fall back to copying.
			if err := copyDir(src, dst); err != nil {
				return err
			}
			if err := os.RemoveAll(src); err != nil {
				return err
			}
		}
	}
	return s.Clear(ctx, from)
}

func (s *DiskStore) OutputPath(ctx context.Context, ik key.InputKey) (string, error) {
	meta, err := s.ReadMetadata(ctx, ik)
	if err != nil {
		return "", err
	}
	return s.outputFile(ik, meta), nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	})
}

var _ Store = (*DiskStore)(nil)
