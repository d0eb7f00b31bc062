package codec

import "encoding/json"

// JSONCodec stores outputs as indented JSON, trading size for
// on-disk readability.
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (JSONCodec) Decode(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Extension() string { return "json" }

var _ Codec = JSONCodec{}
