package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonwraymond/cacheables/key"
)

// MemoryStore is an in-process store: records live for the process
// lifetime. Useful in tests and for memoization without durability.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*memRecord
}

type memRecord struct {
	output []byte
	meta   Metadata
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[string]*memRecord)}
}

func memKey(ik key.InputKey) string {
	return ik.FunctionID + "\x00" + ik.InputID
}

func (s *MemoryStore) Exists(_ context.Context, ik key.InputKey) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[memKey(ik)]
	return ok, nil
}

func (s *MemoryStore) Read(_ context.Context, ik key.InputKey) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[memKey(ik)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, ik.FunctionID, ik.InputID)
	}
	rec.meta.Touch(time.Now())
	out := make([]byte, len(rec.output))
	copy(out, rec.output)
	return out, nil
}

func (s *MemoryStore) ReadMetadata(_ context.Context, ik key.InputKey) (Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[memKey(ik)]
	if !ok {
		return Metadata{}, fmt.Errorf("%w: %s/%s", ErrNotFound, ik.FunctionID, ik.InputID)
	}
	return rec.meta, nil
}

func (s *MemoryStore) Write(_ context.Context, ik key.InputKey, output []byte, meta Metadata) error {
	buf := make([]byte, len(output))
	copy(buf, output)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[memKey(ik)] = &memRecord{output: buf, meta: meta}
	return nil
}

func (s *MemoryStore) Evict(_ context.Context, ik key.InputKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, memKey(ik))
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, fk key.FunctionKey) error {
	prefix := fk.FunctionID + "\x00"
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.records {
		if strings.HasPrefix(k, prefix) {
			delete(s.records, k)
		}
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, fk key.FunctionKey) ([]key.InputKey, error) {
	prefix := fk.FunctionID + "\x00"
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []key.InputKey
	for k := range s.records {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, key.InputKey{
				FunctionID: fk.FunctionID,
				InputID:    strings.TrimPrefix(k, prefix),
			})
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].InputID < keys[j].InputID })
	return keys, nil
}

func (s *MemoryStore) Adopt(_ context.Context, from, to key.FunctionKey) error {
	prefix := from.FunctionID + "\x00"
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, rec := range s.records {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		inputID := strings.TrimPrefix(k, prefix)
		s.records[memKey(key.InputKey{FunctionID: to.FunctionID, InputID: inputID})] = rec
		delete(s.records, k)
	}
	return nil
}

func (s *MemoryStore) OutputPath(_ context.Context, ik key.InputKey) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[memKey(ik)]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, ik.FunctionID, ik.InputID)
	}
	ext := rec.meta.Codec.Extension
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("mem://functions/%s/inputs/%s/%s.%s",
		ik.FunctionID, ik.InputID, rec.meta.OutputID, ext), nil
}

// Len reports the number of stored records, for tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ Store = (*MemoryStore)(nil)
