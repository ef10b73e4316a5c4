package trace

import "context"

// carrier is what a context holds: the tracer and the innermost span that
// new spans started from the context hang under.
type carrier struct {
	tracer Tracer
	parent uint64
}

type carrierKey struct{}

func carrierOf(ctx context.Context) carrier {
	if ctx != nil {
		if c, ok := ctx.Value(carrierKey{}).(carrier); ok {
			return c
		}
	}
	return carrier{tracer: Nop}
}

// WithTracer attaches t to ctx. Spans already recorded in ctx stay the
// parent of new ones.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	c := carrierOf(ctx)
	c.tracer = t
	return context.WithValue(ctx, carrierKey{}, c)
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return carrierOf(ctx).tracer
}

// ParentSpan returns the span new work under ctx should hang from, 0 if none.
func ParentSpan(ctx context.Context) uint64 {
	return carrierOf(ctx).parent
}

// Start opens a span on ctx's tracer under ctx's current span. The returned
// context carries the new span as parent; when the level drops the scope,
// ctx comes back unchanged so children attach to the nearest recorded span.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	c := carrierOf(ctx)
	s := Begin(c.tracer, scope, name, c.parent)
	if s.ID() == 0 {
		return ctx, s
	}
	c.parent = s.id
	return context.WithValue(ctx, carrierKey{}, c), s
}
