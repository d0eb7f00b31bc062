package store

import (
	"context"
	"errors"

	"github.com/jonwraymond/cacheables/key"
)

// Storage errors.
var (
	// ErrNotFound indicates no record exists for the requested input key.
	ErrNotFound = errors.New("store: record not found")
)

// Store persists cached outputs.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use within
//     one process. Cross-process writers are not coordinated.
//   - Context: operations honor cancellation/deadlines where the backend
//     allows it.
//   - Errors: Read, ReadMetadata, and OutputPath return ErrNotFound when
//     no record exists. Evict and Clear are idempotent.
type Store interface {
	// Exists reports whether a record exists for the input key.
	Exists(ctx context.Context, ik key.InputKey) (bool, error)

	// Read returns the output bytes for the input key and bumps the
	// record's last-accessed time (best effort).
	Read(ctx context.Context, ik key.InputKey) ([]byte, error)

	// ReadMetadata returns the record's metadata document.
	ReadMetadata(ctx context.Context, ik key.InputKey) (Metadata, error)

	// Write replaces the record for the input key. The function id and
	// input id locations are stable; the output id and bytes change.
	Write(ctx context.Context, ik key.InputKey, output []byte, meta Metadata) error

	// Evict removes the record for one input key.
	Evict(ctx context.Context, ik key.InputKey) error

	// Clear removes every record under the function key.
	Clear(ctx context.Context, fk key.FunctionKey) error

	// List returns the input keys stored under the function key.
	List(ctx context.Context, fk key.FunctionKey) ([]key.InputKey, error)

	// Adopt migrates every record from one function key to another,
	// typically after a function rename.
	Adopt(ctx context.Context, from, to key.FunctionKey) error

	// OutputPath returns the backend-specific location of the stored
	// output, for introspection.
	OutputPath(ctx context.Context, ik key.InputKey) (string, error)
}
