package codec

import "github.com/vmihailenco/msgpack/v5"

// MsgpackCodec is the default codec: compact binary encoding that round-
// trips arbitrary Go values, the closest analog to native serialization.
type MsgpackCodec struct{}

func (MsgpackCodec) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (MsgpackCodec) Decode(data []byte, out any) error {
	return msgpack.Unmarshal(data, out)
}

func (MsgpackCodec) Name() string { return "msgpack" }

func (MsgpackCodec) Extension() string { return "msgpack" }

var _ Codec = MsgpackCodec{}
