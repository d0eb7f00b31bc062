package cacheables

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/cacheables/key"
	"github.com/jonwraymond/cacheables/store"
)

// Manual cache operations. These bypass enablement entirely: they act on
// the store regardless of any active frames or environment setting.

// LoadOutput reads and decodes the stored output for an input id. Returns
// ErrCacheMiss when no record exists.
func (f *Func[I, O]) LoadOutput(ctx context.Context, inputID string) (O, error) {
	var out O
	data, err := f.store.Read(ctx, f.inputKey(inputID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return out, fmt.Errorf("%w: function %q input %q: %w", ErrCacheMiss, f.id, inputID, err)
		}
		return out, err
	}
	if err := f.codec.Decode(data, &out); err != nil {
		return out, fmt.Errorf("decode cached output for input %q: %w", inputID, err)
	}
	return out, nil
}

// DumpOutput encodes v and stores it under the input id, replacing any
// existing record. Returns the output id of the stored bytes.
func (f *Func[I, O]) DumpOutput(ctx context.Context, inputID string, v O) (string, error) {
	encoded, err := f.codec.Encode(v)
	if err != nil {
		return "", fmt.Errorf("encode output for input %q: %w", inputID, err)
	}
	outputID := key.OutputID(encoded)
	meta := store.NewMetadata(inputID, outputID, f.codecInfo(), nil)
	if err := f.store.Write(ctx, f.inputKey(inputID), encoded, meta); err != nil {
		return "", err
	}
	return outputID, nil
}

// LoadMetadata returns the metadata document for an input id. Returns
// ErrCacheMiss when no record exists.
func (f *Func[I, O]) LoadMetadata(ctx context.Context, inputID string) (store.Metadata, error) {
	meta, err := f.store.ReadMetadata(ctx, f.inputKey(inputID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Metadata{}, fmt.Errorf("%w: function %q input %q: %w", ErrCacheMiss, f.id, inputID, err)
		}
		return store.Metadata{}, err
	}
	return meta, nil
}

// OutputPath returns the backend-specific location of the stored output.
func (f *Func[I, O]) OutputPath(ctx context.Context, inputID string) (string, error) {
	return f.store.OutputPath(ctx, f.inputKey(inputID))
}

// inputPather is satisfied by stores whose record locations are derivable
// without I/O, such as DiskStore.
type inputPather interface {
	InputPath(ik key.InputKey) string
}

// InputPath returns the location that would hold records for an input id,
// without touching the backend. ok is false when the store cannot name a
// location statically.
func (f *Func[I, O]) InputPath(inputID string) (path string, ok bool) {
	p, ok := f.store.(inputPather)
	if !ok {
		return "", false
	}
	return p.InputPath(f.inputKey(inputID)), true
}

// EvictInput removes the record for one input id. Idempotent.
func (f *Func[I, O]) EvictInput(ctx context.Context, inputID string) error {
	return f.store.Evict(ctx, f.inputKey(inputID))
}

// ClearCache removes every record stored for this function. Idempotent.
func (f *Func[I, O]) ClearCache(ctx context.Context) error {
	return f.store.Clear(ctx, key.FunctionKey{FunctionID: f.id})
}

// ListInputs returns the input ids currently stored for this function.
func (f *Func[I, O]) ListInputs(ctx context.Context) ([]string, error) {
	keys, err := f.store.List(ctx, key.FunctionKey{FunctionID: f.id})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(keys))
	for i, ik := range keys {
		ids[i] = ik.InputID
	}
	return ids, nil
}

// AdoptCache migrates records stored under a previous function id to this
// function, typically after a rename. Existing records under the new id
// are replaced.
func (f *Func[I, O]) AdoptCache(ctx context.Context, fromFunctionID string) error {
	return f.store.Adopt(ctx,
		key.FunctionKey{FunctionID: fromFunctionID},
		key.FunctionKey{FunctionID: f.id},
	)
}

func (f *Func[I, O]) inputKey(inputID string) key.InputKey {
	return key.InputKey{FunctionID: f.id, InputID: inputID}
}
