// Package codec defines the serialization collaborators that turn cached
// output values into bytes and back.
//
// Two codecs ship with the module: msgpack (the default, compact binary)
// and json (human-inspectable). Both are stateless and safe for
// concurrent use.
package codec
