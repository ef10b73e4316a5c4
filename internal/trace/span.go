package trace

import (
	"sync/atomic"
	"time"
)

var seq, spanIDs atomic.Uint64

// nextSeq orders events across every tracer in the process.
func nextSeq() uint64 { return seq.Add(1) }

// Span is an open begin/end pair. A span whose scope the level drops is
// inert: it emits nothing itself and has ID 0, but Reject still reaches the
// tracer. Every method is safe on a nil *Span.
type Span struct {
	tracer Tracer
	id     uint64
	parent uint64
	scope  Scope
	name   string
	start  time.Time
	attrs  map[string]string
}

// Begin opens a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() {
		return nil
	}
	if !t.Level().ShouldEmit(scope) {
		return &Span{tracer: t, parent: parent}
	}
	s := &Span{
		tracer: t,
		id:     spanIDs.Add(1),
		parent: parent,
		scope:  scope,
		name:   name,
		start:  time.Now(),
	}
	s.emit(KindSpanBegin, s.start, "")
	return s
}

// Set records an attribute reported on the end event, e.g. the raw symbol
// or the category it resolved to.
func (s *Span) Set(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string, 2)
	}
	s.attrs[key] = value
	return s
}

// End closes the span with an optional detail and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail)
	return now.Sub(s.start)
}

// Reject records why a symbol was not accepted and closes the span with the
// diagnostic code as its detail. The reason is a decode-scope point, which
// LevelError keeps even though it drops the span itself.
func (s *Span) Reject(code, reason string) {
	if s == nil {
		return
	}
	parent := s.id
	if parent == 0 {
		parent = s.parent
	}
	Point(s.tracer, ScopeDecode, "reject", reason, parent)
	s.End(code)
}

// ID is the span's identifier, or 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) emit(kind Kind, at time.Time, detail string) {
	ev := &Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.attrs
	}
	s.tracer.Emit(ev)
}
