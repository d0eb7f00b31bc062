package policy

// Tristate is an optional boolean: a frame that leaves a flag Unset has
// no opinion, which is distinct from disabling it.
type Tristate int

const (
	Unset Tristate = iota
	Enabled
	Disabled
)

func (t Tristate) String() string {
	switch t {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "unset"
	}
}

// Of converts a bool to its explicit Tristate.
func Of(b bool) Tristate {
	if b {
		return Enabled
	}
	return Disabled
}

// Frame is one pushed set of enablement overrides. A nil Filter means the
// frame does not filter outputs.
type Frame struct {
	Read   Tristate
	Write  Tristate
	Filter func(output any) bool
}

// EnableFrame returns a frame that explicitly sets both flags.
func EnableFrame(read, write bool) Frame {
	return Frame{Read: Of(read), Write: Of(write)}
}

// DisableFrame returns a frame that disables both reads and writes.
func DisableFrame() Frame {
	return Frame{Read: Disabled, Write: Disabled}
}
