package key

import (
	"reflect"
	"runtime"
)

// DigestLength is the length in hex characters of every derived id.
const DigestLength = 16

// FunctionKey identifies one wrapped function.
type FunctionKey struct {
	FunctionID string
}

// InputKey identifies one argument set for one function.
type InputKey struct {
	FunctionID string
	InputID    string
}

// FunctionKey returns the function-level key for this input key.
func (k InputKey) FunctionKey() FunctionKey {
	return FunctionKey{FunctionID: k.FunctionID}
}

// DeriveFunctionID returns explicit if it is non-empty, else the
// module-qualified name. Pure; no failure mode.
func DeriveFunctionID(explicit, qualifiedName string) string {
	if explicit != "" {
		return explicit
	}
	return qualifiedName
}

// QualifiedName returns the module-qualified name of fn, e.g.
// "github.com/acme/pipeline.Tokenize". Returns "" when fn is not a
// function. Closures get the runtime's synthetic name (pkg.Parent.func1),
// which is stable within a build but not across refactors; callers that
// wrap closures should supply an explicit function id instead.
func QualifiedName(fn any) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}
	return rf.Name()
}
