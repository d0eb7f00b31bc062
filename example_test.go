package cacheables_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonwraymond/cacheables"
	"github.com/jonwraymond/cacheables/store"
)

// Example wraps a function, enables its cache for a scope, and shows that
// a repeat call is served without executing again.
func Example() {
	executions := 0
	shout := cacheables.Wrap(func(_ context.Context, s string) (string, error) {
		executions++
		return strings.ToUpper(s), nil
	},
		cacheables.WithFunctionID("example.Shout"),
		cacheables.WithStore(store.NewMemory()),
		cacheables.WithoutRegistry(),
	)

	ctx := context.Background()
	defer shout.EnableCache()()

	first, _ := shout.Call(ctx, "hello")
	second, _ := shout.Call(ctx, "hello")

	fmt.Println(first, second, executions)
	// Output: HELLO HELLO 1
}

// ExampleFunc_DumpOutput populates a record manually and reads it back
// without ever executing the wrapped function.
func ExampleFunc_DumpOutput() {
	shout := cacheables.Wrap(func(_ context.Context, s string) (string, error) {
		return strings.ToUpper(s), nil
	},
		cacheables.WithFunctionID("example.ShoutManual"),
		cacheables.WithStore(store.NewMemory()),
		cacheables.WithoutRegistry(),
	)

	ctx := context.Background()
	inputID, _ := shout.InputID("hello")
	if _, err := shout.DumpOutput(ctx, inputID, "HELLO"); err != nil {
		fmt.Println("dump failed:", err)
		return
	}

	out, _ := shout.LoadOutput(ctx, inputID)
	fmt.Println(out)
	// Output: HELLO
}
