package builtins

import (
	"context"
	"sync"
	"sync/atomic"

	"fortio.org/safecast"
	"golang.org/x/sync/singleflight"

	"kernelsym/internal/catalog"
	"kernelsym/internal/classify"
	"kernelsym/internal/mangle"
	"kernelsym/internal/trace"
)

// Callee is anything that can name the function it calls, typically a
// call instruction in the compiler IR.
type Callee interface {
	Name() string
}

// result is one cache slot: the descriptor handed to callers plus the
// failure that produced it, kept for Explain.
type result struct {
	info *FunctionInfo
	err  error
}

// Registry memoises symbol classification for one compilation session.
// Each distinct symbol is decoded and classified at most once, even under
// concurrent first access; descriptors live as long as the registry.
type Registry struct {
	matcher *classify.Matcher
	tracer  trace.Tracer
	parent  uint64

	mu      sync.RWMutex
	entries map[string]*result
	flight  singleflight.Group
	closed  atomic.Bool

	lookups      atomic.Uint64
	computations atomic.Uint64
}

// Option configures a Registry.
type Option func(*Registry)

// WithTracer emits a symbol-scope span for every computed entry.
func WithTracer(t trace.Tracer) Option {
	return func(r *Registry) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithTraceContext takes the tracer and the parent span for symbol spans
// from ctx.
func WithTraceContext(ctx context.Context) Option {
	return func(r *Registry) {
		r.tracer = trace.FromContext(ctx)
		r.parent = trace.ParentSpan(ctx)
	}
}

// NewRegistry builds a registry over cat. A nil catalog selects the
// embedded default table.
func NewRegistry(cat *catalog.Catalog, opts ...Option) *Registry {
	if cat == nil {
		cat = catalog.MustDefault()
	}
	r := &Registry{
		matcher: classify.NewMatcher(cat),
		tracer:  trace.Nop,
		entries: make(map[string]*result),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns the descriptor for raw. Symbols that fail to decode,
// match no builtin, or carry an unreadable destination type all resolve to
// the shared invalid descriptor; use Explain to tell them apart.
func (r *Registry) Lookup(raw string) *FunctionInfo {
	return r.resolve(raw).info
}

// LookupFunc is Lookup on the callee's name. A nil callee is not a builtin.
func (r *Registry) LookupFunc(c Callee) *FunctionInfo {
	if c == nil {
		return invalid
	}
	return r.Lookup(c.Name())
}

// Explain reports why raw is not a valid builtin: a *mangle.DecodeError,
// ErrNotBuiltin, or a *ReturnTypeError. It returns nil for valid builtins.
func (r *Registry) Explain(raw string) error {
	return r.resolve(raw).err
}

func (r *Registry) resolve(raw string) *result {
	if r.closed.Load() {
		panic("builtins: lookup on closed registry")
	}
	r.lookups.Add(1)

	r.mu.RLock()
	res, ok := r.entries[raw]
	r.mu.RUnlock()
	if ok {
		return res
	}

	v, _, _ := r.flight.Do(raw, func() (any, error) {
		// A flight for raw may have finished between our read and Do.
		r.mu.RLock()
		res, ok := r.entries[raw]
		r.mu.RUnlock()
		if ok {
			return res, nil
		}
		res = r.compute(raw)
		r.mu.Lock()
		if r.entries != nil {
			r.entries[raw] = res
		}
		r.mu.Unlock()
		return res, nil
	})
	return v.(*result)
}

func (r *Registry) compute(raw string) *result {
	r.computations.Add(1)
	span := trace.Begin(r.tracer, trace.ScopeSymbol, "symbol", r.parent).Set("raw", raw)

	info, err := r.classify(raw)
	if err != nil {
		span.Reject(CodeOf(err).ID(), err.Error())
		return &result{info: invalid, err: err}
	}
	span.Set("category", info.category.String()).End("")
	return &result{info: info}
}

func (r *Registry) classify(raw string) (*FunctionInfo, error) {
	sym, err := mangle.Decode(raw)
	if err != nil {
		return invalid, err
	}
	m, ok := r.matcher.Classify(sym.Name)
	if !ok {
		return invalid, ErrNotBuiltin
	}
	return Assemble(sym, m)
}

// Stats is a point-in-time view of registry activity.
type Stats struct {
	Lookups      int // calls to Lookup, LookupFunc, Explain and predicates
	Computations int // pipeline runs; equals Entries unless lookups raced Close
	Entries      int
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	entries := len(r.entries)
	r.mu.RUnlock()
	lookups, err := safecast.Conv[int](r.lookups.Load())
	if err != nil {
		panic(err)
	}
	computations, err := safecast.Conv[int](r.computations.Load())
	if err != nil {
		panic(err)
	}
	return Stats{Lookups: lookups, Computations: computations, Entries: entries}
}

// Close ends the session and releases the cache. Any later lookup panics;
// descriptors already handed out stay valid.
func (r *Registry) Close() {
	if r.closed.Swap(true) {
		return
	}
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
