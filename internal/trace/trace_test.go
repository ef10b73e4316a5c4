package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeCommand, false},
		{LevelError, ScopePass, false},
		{LevelError, ScopeDecode, true},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeSymbol, false},
		{LevelDetail, ScopeSymbol, true},
		{LevelDetail, ScopeDecode, false},
		{LevelDebug, ScopeDecode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestRingKeepsNewestEvents(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeSymbol, name, "", 0)
	}
	got := r.Snapshot()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "c" {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	if got[0].Seq >= got[1].Seq {
		t.Fatalf("sequence not monotonic: %d then %d", got[0].Seq, got[1].Seq)
	}
}

func TestStreamSpanPairs(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeStream, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	outer := Begin(tr, ScopePass, "scan", 0)
	inner := Begin(tr, ScopeSymbol, "symbol", outer.ID())
	inner.Set("category", "vload").End("")
	Begin(tr, ScopeDecode, "filtered", inner.ID()).End("")
	outer.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d events, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], `"category":"vload"`) {
		t.Fatalf("extra missing from end event: %s", lines[2])
	}
	if !strings.Contains(lines[3], `"detail":"done"`) {
		t.Fatalf("detail missing: %s", lines[3])
	}
}

func TestContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop tracer")
	}
	r := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("tracer not propagated")
	}
}

func TestStartParentsChildSpans(t *testing.T) {
	r := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), r)
	ctx, cmd := Start(ctx, ScopeCommand, "scan")
	if ParentSpan(ctx) != cmd.ID() {
		t.Fatalf("context parent %d, want %d", ParentSpan(ctx), cmd.ID())
	}
	// Decode scope is filtered at detail level, so the symbol span below
	// must hang from the pass, not from the dropped span.
	passCtx, pass := Start(ctx, ScopePass, "classify")
	dropCtx, dropped := Start(passCtx, ScopeDecode, "filtered")
	if dropped.ID() != 0 || ParentSpan(dropCtx) != pass.ID() {
		t.Fatalf("filtered span changed the parent: id %d, parent %d", dropped.ID(), ParentSpan(dropCtx))
	}
	_, sym := Start(dropCtx, ScopeSymbol, "symbol")
	sym.End("")
	pass.End("")
	cmd.End("")

	for _, ev := range r.Snapshot() {
		if ev.Kind != KindSpanBegin {
			continue
		}
		want := map[string]uint64{"scan": 0, "classify": cmd.ID(), "symbol": pass.ID()}[ev.Name]
		if ev.ParentID != want {
			t.Fatalf("%s parent %d, want %d", ev.Name, ev.ParentID, want)
		}
	}
}

func TestRejectOnFilteredSpan(t *testing.T) {
	r := NewRingTracer(8, LevelError)
	span := Begin(r, ScopeSymbol, "symbol", 5)
	span.Set("raw", "_Z4sqrtq").Reject("DEC1002", "unknown type code 'q'")

	got := r.Snapshot()
	if len(got) != 1 {
		t.Fatalf("got %d events, want the reject point only: %+v", len(got), got)
	}
	if got[0].Kind != KindPoint || got[0].Name != "reject" || got[0].ParentID != 5 {
		t.Fatalf("unexpected event %+v", got[0])
	}
}

func TestNilSpanIsInert(t *testing.T) {
	var s *Span
	s.Set("k", "v").Reject("X", "y")
	if s.End("") != 0 || s.ID() != 0 {
		t.Fatalf("nil span reported activity")
	}
	if Begin(Nop, ScopeCommand, "lookup", 0) != nil {
		t.Fatalf("Nop tracer produced a span")
	}
}

func TestParseHelpers(t *testing.T) {
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode(both) = %v, %v", m, err)
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat(ndjson) = %v, %v", f, err)
	}
}
