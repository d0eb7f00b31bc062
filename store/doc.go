// Package store provides the durable storage collaborators behind cached
// results.
//
// A Store persists one record per (function id, input id) pair: the
// serialized output bytes plus a metadata document for human inspection.
// Three implementations ship with the module: DiskStore (the default,
// one directory per input id), MemoryStore (ephemeral, for tests and
// short-lived processes), and RedisStore (a shared remote store).
//
// Stores make a single attempt per operation: I/O errors surface
// unchanged with no retry. Concurrent writers to the same input id are
// not coordinated; last write wins.
package store
