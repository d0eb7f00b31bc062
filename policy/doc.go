// Package policy decides, per call, whether the cache is read and written.
//
// Enablement is expressed as frames pushed onto per-scope stacks (one
// stack per wrapped function, one process-wide, plus an immutable
// environment setting). Resolution is total and follows
// most-restrictive-wins: a flag is effective only if some active frame
// enables it and no active frame disables it.
package policy
