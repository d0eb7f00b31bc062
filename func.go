package cacheables

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/cacheables/codec"
	"github.com/jonwraymond/cacheables/key"
	"github.com/jonwraymond/cacheables/observe"
	"github.com/jonwraymond/cacheables/policy"
	"github.com/jonwraymond/cacheables/store"
)

// Func is a wrapped function with durable memoization. Construct with
// Wrap; the zero value is not usable. A Func is safe for concurrent use.
type Func[I, O any] struct {
	id         string
	fn         func(context.Context, I) (O, error)
	store      store.Store
	codec      codec.Codec
	deriver    *key.Deriver
	exclude    func(name string) bool
	events     *observe.Events
	meta       observe.FuncMeta
	rejectMode FilterRejectMode

	scope policy.Scope
}

// Wrap builds a cacheable handle around fn. The function id defaults to
// fn's module-qualified name; wrapping a closure without WithFunctionID
// works but ties the cache to the runtime's synthetic closure name.
//
// Caching starts disabled. Enable per call site with EnableCache, per
// process with EnableAll, or per environment with CACHEABLES_ENABLED.
func Wrap[I, O any](fn func(context.Context, I) (O, error), opts ...Option) *Func[I, O] {
	cfg := config{
		exclude:    defaultExclude,
		rejectMode: RecomputeOnReject,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.store == nil {
		cfg.store = store.NewDisk("")
	}
	if cfg.codec == nil {
		cfg.codec = codec.MsgpackCodec{}
	}

	id := key.DeriveFunctionID(cfg.functionID, key.QualifiedName(fn))

	f := &Func[I, O]{
		id:         id,
		fn:         fn,
		store:      cfg.store,
		codec:      cfg.codec,
		deriver:    key.NewDeriver(),
		exclude:    cfg.exclude,
		events:     cfg.events,
		meta:       observe.FuncMeta{FunctionID: id},
		rejectMode: cfg.rejectMode,
	}
	if !cfg.noRegister {
		register(f)
	}
	return f
}

// FunctionID returns the function's cache identity.
func (f *Func[I, O]) FunctionID() string {
	return f.id
}

// InputID derives the input id Call would use for this input.
func (f *Func[I, O]) InputID(in I) (string, error) {
	return f.deriver.InputID(f.id, key.BindArguments(in, f.exclude))
}

// Call invokes the wrapped function through the cache.
//
// The effective policy is resolved first. With the cache bypassed the
// function runs directly. Otherwise a read hit returns the stored output
// without executing; a miss executes and, when writing is enabled and the
// filter accepts the value, persists the output. The wrapped function's
// error propagates unchanged and is never cached. Write failures are
// logged and swallowed so a working computation is never failed by its
// cache.
func (f *Func[I, O]) Call(ctx context.Context, in I) (O, error) {
	decision := policy.Resolve(f.scope.Frames(), globalScope.Frames(), policy.ProcessEnv())

	ctx, finish := f.events.StartCall(ctx, f.meta)

	if decision.Bypass() {
		out, err := f.fn(ctx, in)
		finish(observe.OutcomeBypass, err)
		return out, err
	}

	args := key.BindArguments(in, f.exclude)
	inputID, err := f.deriver.InputID(f.id, args)
	if err != nil {
		// An unhashable argument degrades the call to uncached execution.
		f.events.DeriveError(ctx, f.meta, err)
		out, err := f.fn(ctx, in)
		finish(observe.OutcomeBypass, err)
		return out, err
	}
	ik := key.InputKey{FunctionID: f.id, InputID: inputID}

	if decision.Read {
		out, hit, err := f.load(ctx, ik, decision.Filter)
		if err != nil {
			var zero O
			finish(observe.OutcomeMiss, err)
			return zero, err
		}
		if hit {
			finish(observe.OutcomeHit, nil)
			return out, nil
		}
	}

	out, err := f.fn(ctx, in)
	if err != nil {
		finish(observe.OutcomeMiss, err)
		return out, err
	}

	if decision.Write && (decision.Filter == nil || decision.Filter(out)) {
		f.persist(ctx, ik, args, out)
	}

	finish(observe.OutcomeMiss, nil)
	return out, nil
}

// load attempts a cache read. A missing record, a corrupt record, or a
// filter rejection in RecomputeOnReject mode all report hit=false; the
// only error path is a rejection in ErrorOnReject mode.
func (f *Func[I, O]) load(ctx context.Context, ik key.InputKey, filter func(any) bool) (out O, hit bool, err error) {
	data, rerr := f.store.Read(ctx, ik)
	if rerr != nil {
		if !errors.Is(rerr, store.ErrNotFound) {
			f.events.LoadError(ctx, f.meta, ik.InputID, rerr)
		}
		return out, false, nil
	}

	if derr := f.codec.Decode(data, &out); derr != nil {
		f.events.LoadError(ctx, f.meta, ik.InputID, derr)
		var zero O
		return zero, false, nil
	}

	if filter != nil && !filter(out) {
		if f.rejectMode == ErrorOnReject {
			var zero O
			return zero, false, fmt.Errorf("%w: function %q input %q", ErrFilteredOutput, f.id, ik.InputID)
		}
		var zero O
		return zero, false, nil
	}

	return out, true, nil
}

// persist encodes and writes one output. Best effort.
func (f *Func[I, O]) persist(ctx context.Context, ik key.InputKey, args []key.Argument, out O) {
	encoded, err := f.codec.Encode(out)
	if err != nil {
		f.events.WriteError(ctx, f.meta, ik.InputID, err)
		return
	}

	outputID := key.OutputID(encoded)
	meta := store.NewMetadata(ik.InputID, outputID, f.codecInfo(), f.argumentSummary(args))
	if err := f.store.Write(ctx, ik, encoded, meta); err != nil {
		f.events.WriteError(ctx, f.meta, ik.InputID, err)
		return
	}
	f.events.Write(ctx, f.meta, ik.InputID, outputID)
}

func (f *Func[I, O]) codecInfo() store.CodecInfo {
	return store.CodecInfo{Name: f.codec.Name(), Extension: f.codec.Extension()}
}

// argumentSummary maps argument names to their value digests for the
// metadata document. Raw values are deliberately not recorded.
func (f *Func[I, O]) argumentSummary(args []key.Argument) map[string]string {
	if len(args) == 0 {
		return nil
	}
	summary := make(map[string]string, len(args))
	for _, a := range args {
		digest, err := f.deriver.ValueDigest(a.Value)
		if err != nil {
			continue
		}
		summary[a.Name] = digest
	}
	return summary
}
