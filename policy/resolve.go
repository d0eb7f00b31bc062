package policy

// Decision is the effective cache policy for one call.
type Decision struct {
	Read   bool
	Write  bool
	Filter func(output any) bool
}

// Bypass reports whether the cache is fully out of play for this call.
func (d Decision) Bypass() bool {
	return !d.Read && !d.Write
}

// Resolve combines the function scope, the global scope, and the
// environment setting into an effective decision. Resolution is total.
//
// Per flag, across every active frame of every scope: any explicit
// Disabled wins; otherwise any explicit Enabled wins; otherwise the flag
// is false (no frame anywhere means the cache is bypassed). The
// environment is binary: Enabled contributes read=true, write=true, which
// function or global frames can still narrow; Disabled forces both flags
// false and cannot be overridden.
//
// The filter is taken from the most recently pushed frame that carries
// one, function scope before global.
func Resolve(function, global []Frame, env Tristate) Decision {
	var read, write vote
	for _, f := range function {
		read.count(f.Read)
		write.count(f.Write)
	}
	for _, f := range global {
		read.count(f.Read)
		write.count(f.Write)
	}
	read.count(env)
	write.count(env)

	return Decision{
		Read:   read.effective(),
		Write:  write.effective(),
		Filter: latestFilter(function, global),
	}
}

// vote tallies explicit opinions for one flag.
type vote struct {
	anyTrue  bool
	anyFalse bool
}

func (v *vote) count(t Tristate) {
	switch t {
	case Enabled:
		v.anyTrue = true
	case Disabled:
		v.anyFalse = true
	}
}

// effective applies most-restrictive-wins.
func (v *vote) effective() bool {
	return v.anyTrue && !v.anyFalse
}

func latestFilter(function, global []Frame) func(any) bool {
	for i := len(function) - 1; i >= 0; i-- {
		if function[i].Filter != nil {
			return function[i].Filter
		}
	}
	for i := len(global) - 1; i >= 0; i-- {
		if global[i].Filter != nil {
			return global[i].Filter
		}
	}
	return nil
}
