// Package trace records what kernelsym spends its time on.
//
// Events are grouped into spans at three scopes: a CLI command, a pass
// inside it (loading the catalog, scanning a symbol list) and the
// classification of a single symbol. The registry opens a symbol span for
// every symbol it computes, so a debug trace of a scan shows each cache fill
// exactly once.
//
// Enable tracing from the command line:
//
//	kernelsym scan --trace=- --trace-level=detail symbols.txt
//
// Tracers:
//
//   - Nop: the default; Begin returns a nil span
//   - StreamTracer: writes each event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events for dumping after a failure
//   - MultiTracer: fans out to several tracers
//
// Levels select scopes: phase shows commands and passes, detail adds
// per-symbol spans, debug also records point events for failed lookups.
//
// A tracer and the current span travel with the context. Spans started
// from it nest under the innermost recorded span:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "classify")
//	defer span.End("")
//	reg := builtins.NewRegistry(cat, builtins.WithTraceContext(ctx))
package trace
