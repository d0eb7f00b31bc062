// Package cacheables memoizes function calls on durable storage.
//
// Wrap a function to get a handle whose Call derives a deterministic
// input id from the function identity and the argument values, serves
// repeat calls from the configured store, and persists fresh outputs:
//
//	fib := cacheables.Wrap(func(ctx context.Context, n int) (int, error) {
//		...
//	})
//	defer fib.EnableCache()()
//	out, err := fib.Call(ctx, 40)
//
// Caching is off until enabled. Enablement stacks per function, process
// wide, and through the environment, and the most restrictive active
// setting wins. Storage and serialization are pluggable; DiskStore with
// msgpack encoding is the default.
package cacheables
