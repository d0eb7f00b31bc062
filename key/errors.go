package key

import "errors"

// Derivation errors.
var (
	// ErrUnhashableArgument indicates an argument value cannot be
	// canonically serialized for digesting.
	ErrUnhashableArgument = errors.New("key: argument is not hashable")

	// ErrCyclicValue indicates a value contains a reference cycle.
	ErrCyclicValue = errors.New("key: value contains a cycle")
)
