package codec

import (
	"errors"
	"fmt"
)

// ErrUnknownCodec indicates a codec name with no registered implementation.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec serializes cached outputs.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Determinism is not required; output ids are digests of the encoded
//     bytes, so a codec producing different bytes for equal values simply
//     yields a different output id on rewrite.
type Codec interface {
	// Encode serializes a value.
	Encode(v any) ([]byte, error)

	// Decode deserializes data into out, which must be a non-nil pointer.
	Decode(data []byte, out any) error

	// Name is the codec's registry name, recorded in cache metadata.
	Name() string

	// Extension is the file extension used by disk-backed stores.
	Extension() string
}

var builtins = map[string]Codec{
	"msgpack": MsgpackCodec{},
	"json":    JSONCodec{},
}

// Lookup resolves a codec by registry name. Used by the CLI and by
// config-driven construction.
func Lookup(name string) (Codec, error) {
	c, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}
