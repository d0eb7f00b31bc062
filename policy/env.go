package policy

import (
	"os"
	"strings"
	"sync"
)

// Environment variables controlling the environment scope. The value
// "true" (case-insensitive) activates a variable; anything else leaves it
// unset.
const (
	EnvEnabled  = "CACHEABLES_ENABLED"
	EnvDisabled = "CACHEABLES_DISABLED"
)

var processEnv = sync.OnceValue(func() Tristate {
	return envState(os.Getenv)
})

// ProcessEnv returns the environment-scope setting, read once at first
// use and immutable for the process lifetime.
func ProcessEnv() Tristate {
	return processEnv()
}

// envState resolves the environment tri-state. Setting both variables is
// a configuration conflict and resolves to Disabled, the restrictive
// reading.
func envState(getenv func(string) string) Tristate {
	enabled := strings.EqualFold(getenv(EnvEnabled), "true")
	disabled := strings.EqualFold(getenv(EnvDisabled), "true")
	switch {
	case disabled:
		return Disabled
	case enabled:
		return Enabled
	default:
		return Unset
	}
}
