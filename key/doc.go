// Package key derives the stable identifiers that address cached results:
// function ids, input ids, and output ids.
//
// Derivation is deterministic by value: two argument sets that are equal by
// value produce the same input id across processes and runs, regardless of
// map iteration order or pointer identity. Per-value digests are memoized
// in process so that repeatedly hashing a large identical value is cheap.
package key
